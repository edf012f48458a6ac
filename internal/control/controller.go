package control

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	approx "github.com/meko-christian/algo-approx"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
	"github.com/cwbudde/algo-freeze/internal/audiofile"
	"github.com/cwbudde/algo-freeze/internal/player"
)

const (
	ln10        = 2.302585092994045684017991454684
	silenceDBFS = -120.0
)

// Engine is the part of the freeze engine the control path drives.
type Engine interface {
	Submit(cmd freeze.Command) error
	State() freeze.State
	Enabled() freeze.CommandSet
	OutputPeak() float64
}

// Loader receives decoded sources.
type Loader interface {
	SetSource(src *player.Source)
	Finished() bool
}

// DecodeFunc decodes the file at path.
type DecodeFunc func(path string) (*player.Source, error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDecoder replaces audiofile.Decode.
func WithDecoder(decode DecodeFunc) Option {
	return func(c *Controller) {
		if decode != nil {
			c.decode = decode
		}
	}
}

// WithSampleRate converts loaded sources to rate.
func WithSampleRate(rate float64) Option {
	return func(c *Controller) {
		c.sampleRate = rate
	}
}

// Controller serializes control-path commands. It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	engine     Engine
	loader     Loader
	decode     DecodeFunc
	sampleRate float64
	logger     *slog.Logger
	current    string
}

// New creates a controller for engine and loader.
func New(engine Engine, loader Loader, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		loader: loader,
		decode: audiofile.Decode,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Open decodes path and hands it to the transport. On failure the previous
// source and state are kept.
func (c *Controller) Open(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.decode(path)
	if err != nil {
		c.logger.Warn("open failed", "path", path, "error", err)
		return fmt.Errorf("control: open %s: %w", path, err)
	}

	if c.sampleRate > 0 && src.SampleRate() != c.sampleRate {
		from := src.SampleRate()

		src, err = src.Resampled(c.sampleRate)
		if err != nil {
			c.logger.Warn("open failed", "path", path, "error", err)
			return fmt.Errorf("control: open %s: %w", path, err)
		}

		c.logger.Debug("source resampled", "path", path, "from", from, "to", c.sampleRate)
	}

	if err := c.engine.Submit(freeze.CommandOpen); err != nil {
		c.logger.Warn("open failed", "path", path, "error", err)
		return fmt.Errorf("control: open %s: %w", path, err)
	}

	c.loader.SetSource(src)

	c.current = path
	c.logger.Info("source opened",
		"path", path,
		"channels", src.Channels(),
		"sample_rate", src.SampleRate(),
		"seconds", src.Duration())

	return nil
}

// Play starts or resumes live playback; from a frozen loop it thaws.
func (c *Controller) Play() error { return c.submit(freeze.CommandPlay) }

// Stop stops playback.
func (c *Controller) Stop() error { return c.submit(freeze.CommandStop) }

// Freeze captures the current audio into a sustained loop.
func (c *Controller) Freeze() error { return c.submit(freeze.CommandFreeze) }

func (c *Controller) submit(cmd freeze.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.engine.Submit(cmd); err != nil {
		c.logger.Debug("command rejected", "command", cmd, "state", c.engine.State(), "error", err)
		return fmt.Errorf("control: %w", err)
	}

	c.logger.Info("command", "command", cmd)

	return nil
}

// Enabled returns the commands a user interface should offer.
func (c *Controller) Enabled() freeze.CommandSet { return c.engine.Enabled() }

// Poll reconciles the engine with the transport. When playback ran off the
// end of the source it issues Stop and reports true.
func (c *Controller) Poll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loader.Finished() || !c.engine.Enabled().Has(freeze.CommandStop) {
		return false
	}

	if c.engine.State() != freeze.StateStarting {
		return false
	}

	if err := c.engine.Submit(freeze.CommandStop); err != nil {
		return false
	}

	c.logger.Info("end of source", "path", c.current)

	return true
}

// Status is a snapshot of the player for display.
type Status struct {
	Source  string
	State   freeze.State
	Enabled freeze.CommandSet
	PeakDB  float64
}

func (s Status) String() string {
	src := s.Source
	if src == "" {
		src = "-"
	}

	return fmt.Sprintf("state=%s enabled=%s peak=%.1f dBFS source=%s", s.State, s.Enabled, s.PeakDB, src)
}

// Status returns the current snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Source:  c.current,
		State:   c.engine.State(),
		Enabled: c.engine.Enabled(),
		PeakDB:  toDBFS(c.engine.OutputPeak()),
	}
}

// toDBFS converts a linear peak to decibels, floored at silenceDBFS.
func toDBFS(peak float64) float64 {
	if peak <= 0 || math.IsNaN(peak) {
		return silenceDBFS
	}

	return math.Max(20*approx.FastLog(peak)/ln10, silenceDBFS)
}
