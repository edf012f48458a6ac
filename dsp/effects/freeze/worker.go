package freeze

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-freeze/dsp/ring"
	"github.com/cwbudde/algo-freeze/dsp/spectral"
)

// Shadow ownership: the callback owns the shadow while idle or ready, the
// worker while pending.
const (
	shadowIdle int32 = iota
	shadowPending
	shadowReady
)

// randomizeWorker phase-randomizes a copy of the ring buffer off the audio
// thread and publishes it for the callback to swap in.
type randomizeWorker struct {
	status atomic.Int32
	shadow *ring.Buffer
	start  int
	gen    uint64

	randomizer *spectral.Randomizer
	scratch    []float64
	wake       chan struct{}
	logger     *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newRandomizeWorker(channels, size int, randomizer *spectral.Randomizer, logger *slog.Logger) (*randomizeWorker, error) {
	shadow, err := ring.New(channels, size)
	if err != nil {
		return nil, err
	}

	return &randomizeWorker{
		shadow:     shadow,
		randomizer: randomizer,
		scratch:    make([]float64, size),
		wake:       make(chan struct{}, 1),
		logger:     logger,
	}, nil
}

func (w *randomizeWorker) run() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.wake:
			}

			if w.status.Load() != shadowPending {
				continue
			}

			began := time.Now()
			frames, channels := w.shadow.Len(), w.shadow.Channels()

			for ch := range channels {
				w.shadow.Span(ch, w.start, w.scratch)

				if err := w.randomizer.Randomize(w.scratch); err != nil {
					w.logger.Warn("freeze window randomization failed", "channel", ch, "error", err)
					continue
				}

				w.shadow.Scatter(ch, w.start, w.scratch)
			}

			elapsed := time.Since(began)

			// The callback owns the shadow from here on.
			w.status.Store(shadowReady)
			w.logger.Debug("freeze window randomized",
				"frames", frames,
				"channels", channels,
				"elapsed", elapsed)
		}
	}()
}

// submit copies src into the shadow and wakes the worker. It reports false
// when the worker still owns the shadow from an earlier freeze.
func (w *randomizeWorker) submit(src *ring.Buffer, start int, gen uint64) bool {
	if w.status.Load() == shadowPending {
		return false
	}

	if err := src.CopyTo(w.shadow); err != nil {
		return false
	}

	w.start = start
	w.gen = gen
	w.status.Store(shadowPending)

	select {
	case w.wake <- struct{}{}:
	default:
	}

	return true
}

// previous returns the storage replaced by the last adopt. It is valid until
// the next submit.
func (w *randomizeWorker) previous() *ring.Buffer { return w.shadow }

// adopt swaps a published result for generation gen into dst.
func (w *randomizeWorker) adopt(dst *ring.Buffer, gen uint64) bool {
	if w.status.Load() != shadowReady || w.gen != gen {
		return false
	}

	if err := dst.Swap(w.shadow); err != nil {
		return false
	}

	w.status.Store(shadowIdle)

	return true
}

func (w *randomizeWorker) stop() {
	if w.cancel != nil {
		w.cancel()
	}

	w.wg.Wait()
}
