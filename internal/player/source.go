package player

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-freeze/dsp/resample"
)

// Source is a fully decoded, channel-major audio signal.
type Source struct {
	name       string
	channels   [][]float64
	sampleRate float64
}

// NewSource wraps decoded channels. All channels must have the same length.
func NewSource(name string, channels [][]float64, sampleRate float64) (*Source, error) {
	if len(channels) == 0 {
		return nil, errors.New("player: source has no channels")
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("player: source sample rate must be > 0: %f", sampleRate)
	}

	n := len(channels[0])
	for ch := 1; ch < len(channels); ch++ {
		if len(channels[ch]) != n {
			return nil, fmt.Errorf("player: channel %d has %d frames, want %d", ch, len(channels[ch]), n)
		}
	}

	return &Source{name: name, channels: channels, sampleRate: sampleRate}, nil
}

// Name returns the label the source was created with, usually its path.
func (s *Source) Name() string { return s.name }

// Len returns the length in frames.
func (s *Source) Len() int64 { return int64(len(s.channels[0])) }

// Channels returns the channel count.
func (s *Source) Channels() int { return len(s.channels) }

// SampleRate returns the sample rate in Hz.
func (s *Source) SampleRate() float64 { return s.sampleRate }

// Duration returns the length in seconds.
func (s *Source) Duration() float64 { return float64(s.Len()) / s.sampleRate }

// Channel returns the samples of channel ch.
func (s *Source) Channel(ch int) []float64 { return s.channels[ch] }

// Resampled returns the source converted to rate. The receiver is returned
// unchanged when the rates already match.
func (s *Source) Resampled(rate float64) (*Source, error) {
	if rate == s.sampleRate {
		return s, nil
	}

	channels, err := resample.ConvertChannels(s.channels, s.sampleRate, rate)
	if err != nil {
		return nil, fmt.Errorf("player: resample %s: %w", s.name, err)
	}

	return NewSource(s.name, channels, rate)
}
