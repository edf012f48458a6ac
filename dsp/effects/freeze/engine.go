//nolint:funlen,gocognit,cyclop
package freeze

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-freeze/dsp/ring"
	"github.com/cwbudde/algo-freeze/dsp/spectral"
	"github.com/cwbudde/algo-freeze/dsp/window"
)

// engineState holds the transient flags of the multi-block transitions. Each
// field returns to its zero value when its transition completes or is
// abandoned.
type engineState struct {
	thawing              bool
	justThawed           bool
	forecasting          bool
	forecastCounter      int
	samplesBeforeFadeIn  int
	samplesBeforeFadeOut int
}

// Engine is the freeze processor. Submit, State, Enabled and OutputPeak may be
// called from a control goroutine; Prepare, Process and Release must be called
// from the audio goroutine (or while it is idle).
type Engine struct {
	cfg       config
	transport Transport
	channels  int
	logger    *slog.Logger

	queue     *commandQueue
	intent    atomic.Int32
	published atomic.Int32
	peak      atomic.Uint64

	state      State
	st         engineState
	prepared   bool
	sampleRate float64
	blockSize  int
	size       int
	half       int
	readIndex  int
	writeIndex int
	generation uint64

	// swapProgress counts frames into the fade from the captured window to an
	// adopted randomized one while swapping is set.
	swapping     bool
	swapProgress int

	chunk      [][]float64
	ring       *ring.Buffer
	window     *window.Table
	randomizer *spectral.Randomizer
	scratch    []float64
	worker     *randomizeWorker
}

// New creates an engine for the given channel count driving transport.
// Prepare must be called before Process.
func New(transport Transport, channels int, opts ...Option) (*Engine, error) {
	if transport == nil {
		return nil, errors.New("freeze: transport is nil")
	}

	if channels <= 0 {
		return nil, fmt.Errorf("freeze channel count must be > 0: %d", channels)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch cfg.mode {
	case RandomizeBackground, RandomizeInline, RandomizeOff:
	default:
		return nil, fmt.Errorf("freeze randomizer mode invalid: %d", cfg.mode)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		cfg:       cfg,
		transport: transport,
		channels:  channels,
		logger:    logger,
		queue:     newCommandQueue(cfg.queueSize),
		state:     StateUnprimed,
	}, nil
}

// Channels returns the channel count.
func (e *Engine) Channels() int { return e.channels }

// SampleRate returns the sample rate given to Prepare.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// BlockSize returns the expected block size given to Prepare.
func (e *Engine) BlockSize() int { return e.blockSize }

// FrameCount returns the ring capacity in frames, or 0 before Prepare.
func (e *Engine) FrameCount() int { return e.size }

// RandomizerMode returns the configured randomization mode.
func (e *Engine) RandomizerMode() RandomizerMode { return e.cfg.mode }

// State returns the state last applied by the audio callback.
func (e *Engine) State() State { return State(e.published.Load()) }

// Enabled returns the commands valid once every submitted command has been
// applied. This is what a user interface should offer.
func (e *Engine) Enabled() CommandSet { return Enabled(State(e.intent.Load())) }

// OutputPeak returns the absolute peak of the last processed block.
func (e *Engine) OutputPeak() float64 { return math.Float64frombits(e.peak.Load()) }

// Submit queues cmd for the next Process call. It must be called from a
// single goroutine at a time.
func (e *Engine) Submit(cmd Command) error {
	s := State(e.intent.Load())

	to, ok := next(s, cmd)
	if !ok {
		return fmt.Errorf("%w: %s in state %s", ErrCommandUnavailable, cmd, s)
	}

	if !e.queue.push(cmd) {
		return ErrQueueFull
	}

	e.intent.Store(int32(to))

	return nil
}

// Prepare sizes and zeroes the ring buffer and crossfade table for
// sampleRate. blockSize is the expected callback size; Process accepts any
// non-zero size. Calling Prepare again releases the previous resources.
func (e *Engine) Prepare(sampleRate float64, blockSize int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("freeze sample rate must be > 0: %f", sampleRate)
	}

	if blockSize <= 0 {
		return fmt.Errorf("freeze block size must be > 0: %d", blockSize)
	}

	size, err := e.cfg.frameCount(sampleRate)
	if err != nil {
		return err
	}

	e.Release()

	rb, err := ring.New(e.channels, size)
	if err != nil {
		return fmt.Errorf("freeze: %w", err)
	}

	table, err := window.NewTable(size)
	if err != nil {
		return fmt.Errorf("freeze: %w", err)
	}

	var (
		randomizer *spectral.Randomizer
		worker     *randomizeWorker
		scratch    []float64
	)

	if e.cfg.mode != RandomizeOff {
		var opts []spectral.Option
		if e.cfg.seeded {
			opts = append(opts, spectral.WithSeed(e.cfg.seed))
		}

		randomizer, err = spectral.NewRandomizer(size, opts...)
		if err != nil {
			return fmt.Errorf("freeze: %w", err)
		}
	}

	switch e.cfg.mode {
	case RandomizeInline:
		scratch = make([]float64, size)
	case RandomizeBackground:
		worker, err = newRandomizeWorker(e.channels, size, randomizer, e.logger)
		if err != nil {
			return fmt.Errorf("freeze: %w", err)
		}

		randomizer = nil

		worker.run()
	}

	e.ring = rb
	e.window = table
	e.randomizer = randomizer
	e.scratch = scratch
	e.worker = worker
	e.sampleRate = sampleRate
	e.blockSize = blockSize
	e.size = size
	e.half = size / 2
	e.readIndex = 0
	e.writeIndex = 0
	e.st = engineState{}
	e.swapping = false
	e.swapProgress = 0
	e.chunk = make([][]float64, e.channels)
	e.prepared = true

	return nil
}

// Release stops the randomizer worker and frees the buffers allocated by
// Prepare. Process holds silence until Prepare is called again.
func (e *Engine) Release() {
	if e.worker != nil {
		e.worker.stop()
	}

	e.worker = nil
	e.ring = nil
	e.window = nil
	e.randomizer = nil
	e.scratch = nil
	e.size = 0
	e.half = 0
	e.st = engineState{}
	e.swapping = false
	e.chunk = nil
	e.prepared = false
}

// Process renders one block in place. block is channel-major and every
// channel must have the same length. Pending commands are applied first.
// A zero-length block is a no-op.
func (e *Engine) Process(block [][]float64) error {
	e.drainCommands()

	if len(block) != e.channels {
		zeroBlock(block)
		return fmt.Errorf("%w: got %d channels, want %d", ErrInvalidBlock, len(block), e.channels)
	}

	n := len(block[0])
	for ch := 1; ch < len(block); ch++ {
		if len(block[ch]) != n {
			zeroBlock(block)
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidBlock, ch, len(block[ch]), n)
		}
	}

	if n == 0 {
		return nil
	}

	if !e.prepared {
		zeroBlock(block)
		e.peak.Store(0)

		return ErrNotPrepared
	}

	// The fade indices assume at most half a ring per step.
	var err error
	for off := 0; off < n && err == nil; off += e.half {
		m := min(e.half, n-off)
		for ch := range block {
			e.chunk[ch] = block[ch][off : off+m]
		}

		err = e.processBlock(e.chunk, m)
	}

	e.meter(block)

	return err
}

func (e *Engine) drainCommands() {
	for {
		cmd, ok := e.queue.pop()
		if !ok {
			return
		}

		e.dispatch(cmd)
	}
}

// dispatch applies one command on the audio goroutine. In-flight forecast and
// thaw ramps are abandoned on every transition.
func (e *Engine) dispatch(cmd Command) bool {
	to, ok := next(e.state, cmd)
	if !ok {
		return false
	}

	if to == e.state {
		return true
	}

	from := e.state
	engaged := from == StateFreezing && !e.st.forecasting

	e.st = engineState{}
	e.state = to

	switch to {
	case StateStopped:
		if from == StateStarting || from == StateFreezing {
			e.transport.Stop()
		}

		e.transport.SetPosition(0)
	case StateStarting:
		e.st.thawing = engaged
		e.transport.Start()
	case StateStopping:
		e.transport.Stop()
	case StateFreezing:
		e.st.forecasting = true
	}

	e.published.Store(int32(to))

	return true
}

func (e *Engine) processBlock(block [][]float64, n int) error {
	st := &e.st
	rb := e.ring

	if st.thawing {
		st.samplesBeforeFadeIn = rb.ForwardDistance(e.readIndex, e.writeIndex)

		// Last block drawn from the loop: resume live exactly where it was captured.
		if st.samplesBeforeFadeIn < n {
			e.transport.SetNextReadPosition(e.transport.NextReadPosition() - int64(st.samplesBeforeFadeIn))
			e.writeIndex = rb.Wrap(e.writeIndex, -st.samplesBeforeFadeIn)
			st.thawing = false
			st.justThawed = true
		}
	}

	if st.forecasting && st.forecastCounter == 0 {
		st.samplesBeforeFadeOut = e.half % n
	}

	if !st.forecasting && (e.state == StateFreezing || st.thawing) {
		if e.worker != nil && e.state == StateFreezing && e.worker.adopt(rb, e.generation) {
			e.swapping = true
			e.swapProgress = 0
		}

		e.renderLoop(block, n)

		return nil
	}

	e.transport.NextAudioBlock(block)
	e.captureLive(block)
	e.writeIndex = rb.Wrap(e.writeIndex, n)

	if !st.forecasting {
		return nil
	}

	st.forecastCounter += n
	if st.forecastCounter < e.half {
		return nil
	}

	return e.engageLoop()
}

// renderLoop synthesizes the frozen loop from two taps half a buffer apart.
func (e *Engine) renderLoop(block [][]float64, n int) {
	rb, w := e.ring, e.window
	fadeOrigin := rb.Wrap(e.writeIndex, 1)

	var prev *ring.Buffer
	if e.swapping {
		prev = e.worker.previous()
	}

	for ch, out := range block {
		for s := range out {
			idx1 := rb.Wrap(e.readIndex, s)
			idx2 := rb.Wrap(idx1, e.half)
			g := w.At(rb.ForwardDistance(fadeOrigin, idx1))
			out[s] = rb.Read(ch, idx1)*g + rb.Read(ch, idx2)*(1-g)

			// Fade in the adopted window over half a ring.
			if k := e.swapProgress + s; prev != nil && k < e.half {
				old := prev.Read(ch, idx1)*g + prev.Read(ch, idx2)*(1-g)
				h := w.At(k)
				out[s] = out[s]*h + old*(1-h)
			}
		}
	}

	if prev != nil {
		e.swapProgress += n
		if e.swapProgress >= e.half {
			e.swapping = false
			e.swapProgress = 0
		}
	}

	e.readIndex = rb.Wrap(e.readIndex, n)
}

// captureLive applies the forecast and thaw blends to a live block and
// writes the result into the ring.
func (e *Engine) captureLive(block [][]float64) {
	st := &e.st
	rb, w := e.ring, e.window
	half := e.half

	thawGain, thawProgress := 0.0, 0
	if st.justThawed {
		thawProgress = rb.ForwardDistance(e.readIndex, e.writeIndex)
		if thawProgress > half {
			st.justThawed = false
			st.samplesBeforeFadeIn = 0
		} else {
			thawGain = w.Fade(half - st.samplesBeforeFadeIn + thawProgress)
		}
	}

	for ch, out := range block {
		for s, v := range out {
			if st.forecasting {
				g := 1.0
				if idx := half + st.forecastCounter + s - st.samplesBeforeFadeOut; idx >= half {
					g = w.Fade(idx)
				}

				v = v*g + rb.Read(ch, rb.Wrap(e.writeIndex, 1+half+s))*(1-g)
			}

			if st.justThawed {
				v = rb.Read(ch, rb.Wrap(e.writeIndex, half+s))*thawGain + v*(1-thawGain)
			}

			out[s] = v
			rb.Write(ch, rb.Wrap(e.writeIndex, s), v)
		}
	}

	// A step of half the ring can carry the distance past C without it ever
	// exceeding C/2.
	if st.justThawed && thawProgress+len(block[0]) >= e.size {
		st.justThawed = false
		st.samplesBeforeFadeIn = 0
	}
}

// engageLoop ends the forecast: the loop starts just after the write cursor
// and the captured window is handed to the randomizer.
func (e *Engine) engageLoop() error {
	e.readIndex = e.ring.Wrap(e.writeIndex, 1)
	e.st.forecasting = false
	e.st.forecastCounter = 0
	e.st.samplesBeforeFadeOut = 0
	e.swapping = false
	e.swapProgress = 0
	e.generation++

	switch e.cfg.mode {
	case RandomizeInline:
		for ch := range e.channels {
			e.ring.Span(ch, e.readIndex, e.scratch)

			if err := e.randomizer.Randomize(e.scratch); err != nil {
				return fmt.Errorf("freeze: randomize channel %d: %w", ch, err)
			}

			e.ring.Scatter(ch, e.readIndex, e.scratch)
		}
	case RandomizeBackground:
		e.worker.submit(e.ring, e.readIndex, e.generation)
	}

	return nil
}

func (e *Engine) meter(block [][]float64) {
	peak := 0.0
	for _, ch := range block {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}

	e.peak.Store(math.Float64bits(peak))
}

func zeroBlock(block [][]float64) {
	for _, ch := range block {
		for i := range ch {
			ch[i] = 0
		}
	}
}
