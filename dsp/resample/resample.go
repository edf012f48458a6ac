package resample

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls the anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation.
	QualityBest
)

type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func profileFor(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality Quality
	maxDen  int
}

// Option configures a Converter.
type Option func(*config)

// WithQuality selects the anti-aliasing quality.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithMaxDenominator caps the denominator used to approximate the rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

// Converter performs delay-compensated rational sample-rate conversion of
// complete signals.
type Converter struct {
	up     int
	down   int
	phases [][]float64
	delay  int
}

// New creates a converter from inRate to outRate.
func New(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRate, inRate, outRate)
	}

	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

// NewRational creates a converter for the ratio up/down.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := &Converter{up: up, down: down}
	if up == down {
		return c, nil
	}

	phases, nTaps, err := designPolyphase(up, down, profileFor(cfg.quality))
	if err != nil {
		return nil, err
	}

	c.phases = phases
	c.delay = (nTaps - 1) / 2

	return c, nil
}

// Ratio returns the reduced up/down factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// OutputLen returns the number of samples Convert produces for n input samples.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}

	return (n*c.up + c.down - 1) / c.down
}

// Convert resamples src into a newly allocated slice.
func (c *Converter) Convert(src []float64) []float64 {
	out := make([]float64, c.OutputLen(len(src)))
	if c.up == c.down {
		copy(out, src)
		return out
	}

	for m := range out {
		u := m*c.down + c.delay
		taps := c.phases[u%c.up]
		base := u / c.up

		var y float64

		for k, h := range taps {
			idx := base - k
			if idx < 0 {
				break
			}

			if idx < len(src) {
				y += h * src[idx]
			}
		}

		out[m] = y
	}

	return out
}

// ConvertChannels resamples every channel of a channel-major signal.
func ConvertChannels(channels [][]float64, inRate, outRate float64, opts ...Option) ([][]float64, error) {
	c, err := New(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(channels))
	for ch, samples := range channels {
		out[ch] = c.Convert(samples)
	}

	return out, nil
}

func validRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}
