package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes channel-major samples as interleaved integer PCM.
// Samples are clipped to [-1, 1]. bitDepth must be 16, 24 or 32.
func WriteWAV(w io.WriteSeeker, channels [][]float64, sampleRate, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: bit depth %d", ErrUnsupportedFormat, bitDepth)
	}

	if len(channels) == 0 {
		return errors.New("audiofile: no channels to write")
	}

	if sampleRate <= 0 {
		return fmt.Errorf("audiofile: sample rate must be > 0: %d", sampleRate)
	}

	frames := len(channels[0])
	for ch := range channels {
		if len(channels[ch]) != frames {
			return fmt.Errorf("audiofile: channel %d has %d frames, want %d", ch, len(channels[ch]), frames)
		}
	}

	peak := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, frames*len(channels))

	for i := range frames {
		for ch, samples := range channels {
			v := math.Max(-1, math.Min(1, samples[i]))
			data[i*len(channels)+ch] = int(math.Round(v * peak))
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, len(channels), wavFormatPCM)

	err := enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: len(channels)},
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("audiofile: write wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: close wav: %w", err)
	}

	return nil
}
