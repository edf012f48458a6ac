package ring

import (
	"testing"
)

func TestNewRejectsInvalidShape(t *testing.T) {
	if _, err := New(0, 8); err == nil {
		t.Fatal("New(0, 8) expected error")
	}

	if _, err := New(2, 0); err == nil {
		t.Fatal("New(2, 0) expected error")
	}
}

func TestWrapStaysInRange(t *testing.T) {
	for _, size := range []int{1, 2, 7, 8, 1024} {
		b, err := New(1, size)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		for start := -3 * size; start <= 3*size; start++ {
			for _, offset := range []int{-5 * size, -size - 1, -1, 0, 1, size / 2, size, 5*size + 3} {
				got := b.Wrap(start, offset)
				if got < 0 || got >= size {
					t.Fatalf("size %d: Wrap(%d, %d) = %d out of range", size, start, offset, got)
				}

				want := ((start+offset)%size + size) % size
				if got != want {
					t.Fatalf("size %d: Wrap(%d, %d) = %d, want %d", size, start, offset, got, want)
				}
			}
		}
	}
}

func TestForwardDistance(t *testing.T) {
	b, err := New(1, 8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		from, to, want int
	}{
		{0, 0, 0},
		{5, 5, 0},
		{0, 3, 3},
		{3, 0, 5},
		{7, 1, 2},
		{1, 7, 6},
	}

	for _, tt := range tests {
		if got := b.ForwardDistance(tt.from, tt.to); got != tt.want {
			t.Fatalf("ForwardDistance(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}

	for from := range 8 {
		for to := range 8 {
			d := b.ForwardDistance(from, to)
			if d < 0 || d >= 8 {
				t.Fatalf("ForwardDistance(%d, %d) = %d out of range", from, to, d)
			}

			if b.Wrap(from, d) != to {
				t.Fatalf("Wrap(%d, ForwardDistance) = %d, want %d", from, b.Wrap(from, d), to)
			}
		}
	}
}

func TestReadWriteIsPerChannel(t *testing.T) {
	b, err := New(2, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	b.Write(0, 3, 0.5)
	b.Write(1, 3, -0.25)

	if got := b.Read(0, 3); got != 0.5 {
		t.Fatalf("Read(0, 3) = %v, want 0.5", got)
	}

	if got := b.Read(1, 3); got != -0.25 {
		t.Fatalf("Read(1, 3) = %v, want -0.25", got)
	}

	b.Clear()

	if b.Read(0, 3) != 0 || b.Read(1, 3) != 0 {
		t.Fatal("Clear() left non-zero samples")
	}
}

func TestSpanScatterRoundTrip(t *testing.T) {
	b, err := New(1, 8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := range 8 {
		b.Write(0, i, float64(i))
	}

	span := make([]float64, 8)
	b.Span(0, 5, span)

	want := []float64{5, 6, 7, 0, 1, 2, 3, 4}
	for i := range want {
		if span[i] != want[i] {
			t.Fatalf("span[%d] = %v, want %v", i, span[i], want[i])
		}
	}

	for i := range span {
		span[i] *= 10
	}

	b.Scatter(0, 5, span)

	for i := range 8 {
		if got := b.Read(0, i); got != float64(i)*10 {
			t.Fatalf("Read(0, %d) = %v, want %v", i, got, float64(i)*10)
		}
	}
}

func TestSwapExchangesStorage(t *testing.T) {
	a, _ := New(2, 4)
	b, _ := New(2, 4)

	a.Write(1, 2, 1)
	b.Write(1, 2, 2)

	if err := a.Swap(b); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}

	if a.Read(1, 2) != 2 || b.Read(1, 2) != 1 {
		t.Fatalf("Swap() did not exchange content: a=%v b=%v", a.Read(1, 2), b.Read(1, 2))
	}

	c, _ := New(2, 8)
	if err := a.Swap(c); err == nil {
		t.Fatal("Swap() with mismatched shape expected error")
	}
}

func TestCopyTo(t *testing.T) {
	a, _ := New(1, 4)
	b, _ := New(1, 4)

	a.Write(0, 1, 0.75)

	if err := a.CopyTo(b); err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}

	if b.Read(0, 1) != 0.75 {
		t.Fatalf("CopyTo() Read = %v, want 0.75", b.Read(0, 1))
	}

	b.Write(0, 1, 0)

	if a.Read(0, 1) != 0.75 {
		t.Fatal("CopyTo() shares storage")
	}
}
