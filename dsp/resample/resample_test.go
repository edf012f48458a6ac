package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-freeze/internal/testutil"
)

func TestNewRejectsInvalidRates(t *testing.T) {
	for _, tc := range []struct{ in, out float64 }{
		{0, 48000},
		{44100, -1},
		{math.NaN(), 48000},
		{44100, math.Inf(1)},
	} {
		if _, err := New(tc.in, tc.out); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("New(%v, %v) error = %v, want ErrInvalidRate", tc.in, tc.out, err)
		}
	}

	if _, err := NewRational(0, 1); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("NewRational(0, 1) error = %v, want ErrInvalidRatio", err)
	}
}

func TestRatioIsReduced(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{44100, 48000, 160, 147},
		{48000, 44100, 147, 160},
		{48000, 96000, 2, 1},
		{22050, 44100, 2, 1},
	}

	for _, tc := range tests {
		c, err := New(tc.in, tc.out)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		up, down := c.Ratio()
		if up != tc.up || down != tc.down {
			t.Fatalf("Ratio(%v->%v) = %d/%d, want %d/%d", tc.in, tc.out, up, down, tc.up, tc.down)
		}
	}
}

func TestOutputLen(t *testing.T) {
	c, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	if got := c.OutputLen(44100); got != 48000 {
		t.Fatalf("OutputLen(44100) = %d, want 48000", got)
	}

	if got := c.OutputLen(0); got != 0 {
		t.Fatalf("OutputLen(0) = %d, want 0", got)
	}
}

func TestEqualRatesCopy(t *testing.T) {
	c, err := New(48000, 48000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	src := testutil.Ramp(0, 1, 16)
	got := c.Convert(src)
	testutil.RequireSliceNearlyEqual(t, got, src, 0)

	got[0] = 99
	if src[0] != 0 {
		t.Fatal("Convert() aliased its input")
	}
}

func TestDCGainInterior(t *testing.T) {
	for _, tc := range []struct{ in, out float64 }{{44100, 48000}, {48000, 44100}, {24000, 48000}} {
		got, err := ConvertChannels([][]float64{testutil.DC(1, 4096)}, tc.in, tc.out)
		if err != nil {
			t.Fatalf("ConvertChannels() error = %v", err)
		}

		testutil.RequireFinite(t, got[0])

		n := len(got[0])
		for i := n / 4; i < 3*n/4; i++ {
			if math.Abs(got[0][i]-1) > 1e-2 {
				t.Fatalf("%v->%v: sample %d = %v, want ~1", tc.in, tc.out, i, got[0][i])
			}
		}
	}
}

func TestUpsampleKeepsAlignment(t *testing.T) {
	src := testutil.DeterministicSine(440, 24000, 1, 2048)

	got, err := ConvertChannels([][]float64{src}, 24000, 48000)
	if err != nil {
		t.Fatalf("ConvertChannels() error = %v", err)
	}

	// Even output samples fall on input instants.
	for i := 256; i < 768; i++ {
		if d := math.Abs(got[0][2*i] - src[i]); d > 2e-2 {
			t.Fatalf("sample %d: got %v, want %v", i, got[0][2*i], src[i])
		}
	}
}
