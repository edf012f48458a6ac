package window

import (
	"fmt"

	"github.com/cwbudde/algo-freeze/internal/assert"
)

// Table is an immutable crossfade envelope with one coefficient per ring
// position.
type Table struct {
	coeffs []float64
	half   int
}

// NewTable builds a Hann crossfade table of the given even size. The periodic
// form is used unless WithSymmetric is passed.
func NewTable(size int, opts ...Option) (*Table, error) {
	if size < 2 || size%2 != 0 {
		return nil, fmt.Errorf("window table size must be even and >= 2: %d", size)
	}

	coeffs, err := Hann(size, append([]Option{WithPeriodic()}, opts...)...)
	if err != nil {
		return nil, err
	}

	return &Table{coeffs: coeffs, half: size / 2}, nil
}

// Len returns the number of coefficients.
func (t *Table) Len() int { return len(t.coeffs) }

// At returns the coefficient at i.
func (t *Table) At(i int) float64 {
	return t.coeffs[assert.Index(i, len(t.coeffs), "window")]
}

// Fade returns the coefficient at i, or 0 once i has run past the end of the
// table (the fade-out has finished). Negative indices are defects.
func (t *Table) Fade(i int) float64 {
	if i >= len(t.coeffs) {
		return 0
	}

	return t.At(i)
}

// Partner returns the coefficient half a table away from i.
func (t *Table) Partner(i int) float64 {
	return t.At((i + t.half) % len(t.coeffs))
}

// Coeffs returns a copy of the coefficients.
func (t *Table) Coeffs() []float64 {
	return append([]float64(nil), t.coeffs...)
}
