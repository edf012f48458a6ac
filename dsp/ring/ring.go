package ring

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-freeze/internal/assert"
)

// Buffer is a circular store of Len() frames for a fixed number of channels.
type Buffer struct {
	samples [][]float64
	size    int
}

// New returns a zeroed buffer with the given channel count and frame capacity.
func New(channels, size int) (*Buffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("ring channel count must be > 0: %d", channels)
	}

	if size <= 0 {
		return nil, fmt.Errorf("ring size must be > 0: %d", size)
	}

	samples := make([][]float64, channels)
	for ch := range samples {
		samples[ch] = make([]float64, size)
	}

	return &Buffer{samples: samples, size: size}, nil
}

// Len returns the capacity in frames.
func (b *Buffer) Len() int { return b.size }

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.samples) }

// Wrap returns the position reached by moving offset frames (either sign)
// away from start.
func (b *Buffer) Wrap(start, offset int) int {
	pos := (start + offset) % b.size
	if pos < 0 {
		pos += b.size
	}

	return pos
}

// ForwardDistance returns the number of forward steps from one position to
// another, wrapping at Len(). The result lies in [0, Len()).
func (b *Buffer) ForwardDistance(from, to int) int {
	dist := (to - from) % b.size
	if dist < 0 {
		dist += b.size
	}

	return dist
}

// Read returns the sample stored at index on channel.
func (b *Buffer) Read(channel, index int) float64 {
	return b.samples[channel][assert.Index(index, b.size, "ring read")]
}

// Write stores sample at index on channel.
func (b *Buffer) Write(channel, index int, sample float64) {
	b.samples[channel][assert.Index(index, b.size, "ring write")] = sample
}

// Channel returns the backing slice of one channel. Positions in the slice
// are absolute ring positions.
func (b *Buffer) Channel(channel int) []float64 {
	return b.samples[channel]
}

// Span copies len(dst) frames of channel, starting at start and wrapping,
// into the contiguous slice dst.
func (b *Buffer) Span(channel, start int, dst []float64) {
	src := b.samples[channel]
	pos := b.Wrap(start, 0)

	n := copy(dst, src[pos:])
	for n < len(dst) {
		n += copy(dst[n:], src)
	}
}

// Scatter writes the contiguous slice src back into channel, starting at
// start and wrapping. It is the inverse of Span.
func (b *Buffer) Scatter(channel, start int, src []float64) {
	dst := b.samples[channel]
	pos := b.Wrap(start, 0)

	n := copy(dst[pos:], src)
	for n < len(src) {
		n += copy(dst, src[n:])
	}
}

// Clear sets every sample to zero.
func (b *Buffer) Clear() {
	for _, ch := range b.samples {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// CopyTo copies the whole content of b into dst, which must have the same shape.
func (b *Buffer) CopyTo(dst *Buffer) error {
	if err := b.sameShape(dst); err != nil {
		return err
	}

	for ch, src := range b.samples {
		copy(dst.samples[ch], src)
	}

	return nil
}

// Swap exchanges the storage of b and other without copying samples.
func (b *Buffer) Swap(other *Buffer) error {
	if err := b.sameShape(other); err != nil {
		return err
	}

	b.samples, other.samples = other.samples, b.samples

	return nil
}

func (b *Buffer) sameShape(other *Buffer) error {
	if other == nil {
		return errors.New("ring: nil buffer")
	}

	if other.size != b.size || len(other.samples) != len(b.samples) {
		return fmt.Errorf("ring shape mismatch: %dx%d vs %dx%d",
			len(b.samples), b.size, len(other.samples), other.size)
	}

	return nil
}
