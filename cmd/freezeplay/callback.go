package main

// processor is the part of the engine the device callback drives.
type processor interface {
	Process(block [][]float64) error
}

// callback adapts the engine to portaudio's non-interleaved float32 buffers.
// Device buffers larger than the prepared block are processed in chunks.
type callback struct {
	engine processor
	block  [][]float64
	sub    [][]float64
}

func newCallback(engine processor, channels, blockSize int) *callback {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, blockSize)
	}

	return &callback{
		engine: engine,
		block:  block,
		sub:    make([][]float64, channels),
	}
}

func (c *callback) process(out [][]float32) {
	if len(out) != len(c.block) {
		for _, ch := range out {
			clear(ch)
		}

		return
	}

	frames := len(out[0])
	step := len(c.block[0])

	for off := 0; off < frames; off += step {
		n := min(step, frames-off)
		for ch := range c.sub {
			c.sub[ch] = c.block[ch][:n]
		}

		// Errors leave the block silent.
		_ = c.engine.Process(c.sub)

		for ch, samples := range c.sub {
			dst := out[ch][off : off+n]
			for i, v := range samples {
				dst[i] = float32(v)
			}
		}
	}
}
