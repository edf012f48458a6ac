package freeze_test

import (
	"fmt"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
)

type silentTransport struct{ pos int64 }

func (s *silentTransport) Start()                       {}
func (s *silentTransport) Stop()                        {}
func (s *silentTransport) SetPosition(frame int64)      { s.pos = frame }
func (s *silentTransport) NextReadPosition() int64      { return s.pos }
func (s *silentTransport) SetNextReadPosition(f int64)  { s.pos = f }
func (s *silentTransport) NextAudioBlock(b [][]float64) { s.pos += int64(len(b[0])) }

func ExampleEnabled() {
	for _, s := range []freeze.State{
		freeze.StateUnprimed, freeze.StateStopped, freeze.StateStarting,
		freeze.StateStopping, freeze.StateFreezing,
	} {
		fmt.Printf("%s %s\n", s, freeze.Enabled(s))
	}
	// Output:
	// unprimed {}
	// stopped {play}
	// starting {stop,freeze}
	// stopping {play}
	// freezing {play,stop}
}

func ExampleEngine_Process() {
	e, err := freeze.New(&silentTransport{}, 2, freeze.WithRandomizer(freeze.RandomizeOff))
	if err != nil {
		fmt.Println("error")
		return
	}

	if err := e.Prepare(44100, 512); err != nil {
		fmt.Println("error")
		return
	}
	defer e.Release()

	_ = e.Submit(freeze.CommandOpen)
	_ = e.Submit(freeze.CommandPlay)
	_ = e.Submit(freeze.CommandFreeze)

	block := [][]float64{make([]float64, 512), make([]float64, 512)}
	_ = e.Process(block)

	fmt.Printf("frames=%d state=%s enabled=%s\n", e.FrameCount(), e.State(), e.Enabled())
	// Output:
	// frames=16384 state=freezing enabled={play,stop}
}
