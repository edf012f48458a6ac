package player

import (
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Transport plays a Source into channel-major blocks. Start, Stop and the
// position methods may be called from any goroutine; NextAudioBlock is meant
// for the audio callback and does not allocate.
//
// When the read position reaches the end of the source the transport stops
// itself and Finished reports true until the next Start or SetSource.
type Transport struct {
	source   atomic.Pointer[Source]
	playing  atomic.Bool
	finished atomic.Bool
	pos      atomic.Int64
	gain     atomic.Uint64
}

// NewTransport returns a stopped transport with unity gain and no source.
func NewTransport() *Transport {
	t := &Transport{}
	t.gain.Store(math.Float64bits(1))

	return t
}

// SetSource swaps the source, stops playback and rewinds to frame 0.
// A nil source leaves the transport silent.
func (t *Transport) SetSource(src *Source) {
	t.playing.Store(false)
	t.finished.Store(false)
	t.pos.Store(0)
	t.source.Store(src)
}

// Source returns the current source, or nil.
func (t *Transport) Source() *Source { return t.source.Load() }

// Start begins playback from the current position.
func (t *Transport) Start() {
	if t.source.Load() == nil {
		return
	}

	t.finished.Store(false)
	t.playing.Store(true)
}

// Stop pauses playback, keeping the position.
func (t *Transport) Stop() { t.playing.Store(false) }

// Playing reports whether the transport is producing audio.
func (t *Transport) Playing() bool { return t.playing.Load() }

// Finished reports whether playback stopped at the end of the source.
func (t *Transport) Finished() bool { return t.finished.Load() }

// SetPosition moves the read position to frame.
func (t *Transport) SetPosition(frame int64) { t.SetNextReadPosition(frame) }

// NextReadPosition returns the frame the next block starts at.
func (t *Transport) NextReadPosition() int64 { return t.pos.Load() }

// SetNextReadPosition moves the read position. Negative frames clamp to 0.
func (t *Transport) SetNextReadPosition(frame int64) {
	t.pos.Store(max(frame, 0))
}

// SetGain sets the linear output gain.
func (t *Transport) SetGain(gain float64) {
	if math.IsNaN(gain) || math.IsInf(gain, 0) || gain < 0 {
		return
	}

	t.gain.Store(math.Float64bits(gain))
}

// Gain returns the linear output gain.
func (t *Transport) Gain() float64 { return math.Float64frombits(t.gain.Load()) }

// NextAudioBlock fills block with the next frames of the source and
// advances the position. Stopped transports and frames past the end produce
// silence. A mono source is copied to every output channel; extra source
// channels are dropped.
func (t *Transport) NextAudioBlock(block [][]float64) {
	if len(block) == 0 {
		return
	}

	n := len(block[0])
	src := t.source.Load()

	if src == nil || !t.playing.Load() {
		silence(block)
		return
	}

	pos := t.pos.Load()
	avail := int(max(min(src.Len()-pos, int64(n)), 0))

	for ch, out := range block {
		in := src.channels[min(ch, src.Channels()-1)]
		if avail > 0 {
			copy(out[:avail], in[pos:pos+int64(avail)])
		}

		for i := avail; i < len(out); i++ {
			out[i] = 0
		}
	}

	if g := t.Gain(); g != 1 {
		for _, out := range block {
			vecmath.ScaleBlock(out[:avail], out[:avail], g)
		}
	}

	t.pos.Store(pos + int64(avail))

	if avail < n {
		t.playing.Store(false)
		t.finished.Store(true)
	}
}

func silence(block [][]float64) {
	for _, out := range block {
		for i := range out {
			out[i] = 0
		}
	}
}
