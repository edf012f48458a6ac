package spectral

import (
	"fmt"
	"math"
	"math/rand/v2"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Option configures a Randomizer.
type Option func(*config)

type config struct {
	seeded bool
	seed   uint64
}

// WithSeed makes the phase sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seeded = true
		c.seed = seed
	}
}

// Randomizer scrambles the phase spectrum of a fixed-length window in place.
//
// It is not safe for concurrent use; give each goroutine its own instance.
type Randomizer struct {
	size int
	plan *algofft.Plan[complex128]
	rng  *rand.Rand

	spectrum []complex128
	re       []float64
	im       []float64
	mag      []float64
}

// NewRandomizer creates a randomizer for windows of size samples. size must
// be a power of two and >= 2.
func NewRandomizer(size int, opts ...Option) (*Randomizer, error) {
	if size < 2 || !isPowerOf2(size) {
		return nil, fmt.Errorf("spectral randomizer size must be power-of-two and >= 2: %d", size)
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectral randomizer: failed to create FFT plan: %w", err)
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Uint64()
	}

	bins := size/2 + 1

	return &Randomizer{
		size:     size,
		plan:     plan,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		spectrum: make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		mag:      make([]float64, bins),
	}, nil
}

// Size returns the window length in samples.
func (r *Randomizer) Size() int { return r.size }

// Spectrum writes the forward transform of buf into dst. Both must have
// length Size().
func (r *Randomizer) Spectrum(dst []complex128, buf []float64) error {
	if len(buf) != r.size || len(dst) != r.size {
		return fmt.Errorf("spectral randomizer: length mismatch: buf=%d dst=%d want %d",
			len(buf), len(dst), r.size)
	}

	for i, v := range buf {
		dst[i] = complex(v, 0)
	}

	if err := r.plan.Forward(dst, dst); err != nil {
		return fmt.Errorf("spectral randomizer: forward FFT failed: %w", err)
	}

	return nil
}

// Randomize replaces buf, in place, with a signal of identical magnitude
// spectrum and uniformly random phases. DC and Nyquist bins keep their value
// with the imaginary part forced to zero, which keeps the result real.
func (r *Randomizer) Randomize(buf []float64) error {
	if err := r.Spectrum(r.spectrum, buf); err != nil {
		return err
	}

	half := r.size / 2
	for k := 0; k <= half; k++ {
		r.re[k] = real(r.spectrum[k])
		r.im[k] = imag(r.spectrum[k])
	}

	vecmath.Magnitude(r.mag, r.re, r.im)

	for k := 1; k < half; k++ {
		phase := r.rng.Float64() * 2 * math.Pi
		sin, cos := math.Sincos(phase)
		v := complex(r.mag[k]*cos, r.mag[k]*sin)
		r.spectrum[k] = v
		r.spectrum[r.size-k] = complex(real(v), -imag(v))
	}

	r.spectrum[0] = complex(r.re[0], 0)
	r.spectrum[half] = complex(r.re[half], 0)

	if err := r.plan.Inverse(r.spectrum, r.spectrum); err != nil {
		return fmt.Errorf("spectral randomizer: inverse FFT failed: %w", err)
	}

	for i := range buf {
		buf[i] = real(r.spectrum[i])
	}

	return nil
}

func isPowerOf2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
