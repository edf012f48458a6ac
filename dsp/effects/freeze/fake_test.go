package freeze

import (
	"testing"

	"github.com/cwbudde/algo-freeze/internal/testutil"
)

// fakeTransport plays an in-memory multi-channel source and records the
// calls the engine makes.
type fakeTransport struct {
	source  [][]float64
	pos     int64
	playing bool

	starts       int
	stops        int
	setPositions []int64
	setNext      []int64
}

func (f *fakeTransport) Start() { f.playing = true; f.starts++ }
func (f *fakeTransport) Stop()  { f.playing = false; f.stops++ }

func (f *fakeTransport) SetPosition(frame int64) {
	f.setPositions = append(f.setPositions, frame)
	f.pos = frame
}

func (f *fakeTransport) NextReadPosition() int64 { return f.pos }

func (f *fakeTransport) SetNextReadPosition(frame int64) {
	f.setNext = append(f.setNext, frame)
	f.pos = max(frame, 0)
}

func (f *fakeTransport) NextAudioBlock(block [][]float64) {
	for ch, out := range block {
		for s := range out {
			out[s] = 0

			idx := f.pos + int64(s)
			if f.playing && ch < len(f.source) && idx < int64(len(f.source[ch])) {
				out[s] = f.source[ch][idx]
			}
		}
	}

	if f.playing {
		f.pos += int64(len(block[0]))
	}
}

func stereo(mono []float64) [][]float64 {
	return [][]float64{mono, append([]float64(nil), mono...)}
}

func newTestEngine(t *testing.T, frames, blockSize int, opts ...Option) (*Engine, *fakeTransport) {
	t.Helper()

	tr := &fakeTransport{}

	e, err := New(tr, 2, append(opts, WithFrameCount(frames))...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := e.Prepare(48000, blockSize); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	t.Cleanup(e.Release)

	return e, tr
}

func mustSubmit(t *testing.T, e *Engine, cmds ...Command) {
	t.Helper()

	for _, cmd := range cmds {
		if err := e.Submit(cmd); err != nil {
			t.Fatalf("Submit(%s) error = %v", cmd, err)
		}
	}
}

// run processes blocks of n frames and returns the concatenated output.
func run(t *testing.T, e *Engine, n, blocks int) [][]float64 {
	t.Helper()

	out := make([][]float64, e.Channels())
	block := testutil.Block(e.Channels(), n)

	for range blocks {
		if err := e.Process(block); err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		for ch := range out {
			out[ch] = append(out[ch], block[ch]...)
		}
	}

	return out
}
