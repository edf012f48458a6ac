package main

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
	"github.com/cwbudde/algo-freeze/internal/control"
)

type renderer struct {
	engine *freeze.Engine
	ctrl   *control.Controller
	logger *slog.Logger
}

// render processes total frames in blocks, issuing each event at the first
// block boundary at or after its time.
func (r renderer) render(events []control.Event, sampleRate float64, blockSize, total int) ([][]float64, error) {
	channels := r.engine.Channels()

	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, 0, total)
	}

	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, blockSize)
	}

	sub := make([][]float64, channels)
	next := 0

	for frame := 0; frame < total; frame += blockSize {
		for next < len(events) && int(events[next].At*sampleRate) <= frame {
			if err := r.issue(events[next].Command); err != nil {
				r.logger.Warn("script command skipped", "at", events[next].At, "command", events[next].Command, "error", err)
			}

			next++
		}

		n := min(blockSize, total-frame)
		for ch := range sub {
			sub[ch] = block[ch][:n]
		}

		if err := r.engine.Process(sub); err != nil {
			return nil, fmt.Errorf("render at frame %d: %w", frame, err)
		}

		for ch := range out {
			out[ch] = append(out[ch], sub[ch]...)
		}

		r.ctrl.Poll()
	}

	return out, nil
}

func (r renderer) issue(cmd freeze.Command) error {
	switch cmd {
	case freeze.CommandPlay:
		return r.ctrl.Play()
	case freeze.CommandStop:
		return r.ctrl.Stop()
	case freeze.CommandFreeze:
		return r.ctrl.Freeze()
	default:
		return fmt.Errorf("unsupported script command %s", cmd)
	}
}
