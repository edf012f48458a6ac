package audiofile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-freeze/internal/testutil"
)

func writeTempWAV(t *testing.T, channels [][]float64, sampleRate, bitDepth int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	defer f.Close()

	if err := WriteWAV(f, channels, sampleRate, bitDepth); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	return path
}

func TestWAVRoundTrip(t *testing.T) {
	left := testutil.DeterministicSine(440, 44100, 0.8, 2048)
	right := testutil.DeterministicNoise(7, 0.5, 2048)

	for _, bits := range []int{16, 24} {
		path := writeTempWAV(t, [][]float64{left, right}, 44100, bits)

		src, err := Decode(path)
		if err != nil {
			t.Fatalf("Decode(%d-bit) error = %v", bits, err)
		}

		if src.Channels() != 2 || src.Len() != 2048 || src.SampleRate() != 44100 {
			t.Fatalf("%d-bit: decoded %d channels, %d frames at %v Hz", bits, src.Channels(), src.Len(), src.SampleRate())
		}

		eps := 1.5 / float64(int64(1)<<(bits-1))
		testutil.RequireSliceNearlyEqual(t, src.Channel(0), left, eps)
		testutil.RequireSliceNearlyEqual(t, src.Channel(1), right, eps)
	}
}

func TestWriteWAVClips(t *testing.T) {
	path := writeTempWAV(t, [][]float64{{2, -2, 0.5}}, 8000, 16)

	src, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got := src.Channel(0)
	if got[0] > 1 || got[1] < -1 || math.Abs(got[2]-0.5) > 1e-4 {
		t.Fatalf("decoded %v, want clipped samples", got)
	}
}

func TestWriteWAVValidation(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "bad.wav"))
	if err != nil {
		t.Fatalf("os.Create() error = %v", err)
	}
	defer f.Close()

	if err := WriteWAV(f, [][]float64{{0}}, 8000, 12); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("WriteWAV(12-bit) error = %v, want ErrUnsupportedFormat", err)
	}

	if err := WriteWAV(f, nil, 8000, 16); err == nil {
		t.Fatal("WriteWAV(no channels) expected error")
	}

	if err := WriteWAV(f, [][]float64{{0, 1}, {0}}, 8000, 16); err == nil {
		t.Fatal("WriteWAV(ragged) expected error")
	}
}

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	for _, name := range []string{"take.aiff", "take.flac", "take"} {
		if _, err := Decode(name); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("Decode(%q) error = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil || errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decode(missing) error = %v, want open error", err)
	}
}

func TestDecodeRejectsGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file"), 0o600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	if _, err := Decode(path); err == nil {
		t.Fatal("Decode(garbage) expected error")
	}
}
