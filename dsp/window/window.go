package window

import (
	"fmt"
	"math"
)

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form, w[n] = 0.5 - 0.5cos(2πn/N).
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithSymmetric selects the symmetric form, w[n] = 0.5 - 0.5cos(2πn/(N-1)),
// whose first and last coefficients are both zero.
func WithSymmetric() Option {
	return func(c *config) {
		c.periodic = false
	}
}

// Hann returns Hann window coefficients. Without options the symmetric form
// is generated.
func Hann(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return generateHann(size, cfg.periodic), nil
}

func generateHann(size int, periodic bool) []float64 {
	out := make([]float64, size)
	for i := range out {
		x := samplePosition(i, size, periodic)
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
	}

	return out
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
