package freeze

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	defaultFreezeDuration = 0.3
	defaultQueueSize      = 16
)

// RandomizerMode selects where the captured window is phase-randomized.
type RandomizerMode int

const (
	// RandomizeBackground runs the transform on a worker goroutine and swaps
	// the result in at a block boundary.
	RandomizeBackground RandomizerMode = iota
	// RandomizeInline runs the transform inside Process, in the block that
	// completes the forecast.
	RandomizeInline
	// RandomizeOff loops the captured window unchanged.
	RandomizeOff
)

func (m RandomizerMode) String() string {
	switch m {
	case RandomizeBackground:
		return "background"
	case RandomizeInline:
		return "inline"
	case RandomizeOff:
		return "off"
	default:
		return "invalid"
	}
}

// ParseRandomizerMode parses "background", "inline" or "off".
func ParseRandomizerMode(s string) (RandomizerMode, error) {
	for _, m := range []RandomizerMode{RandomizeBackground, RandomizeInline, RandomizeOff} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("freeze: unknown randomizer mode %q", s)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	duration  float64
	frames    int
	mode      RandomizerMode
	seeded    bool
	seed      uint64
	queueSize int
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		duration:  defaultFreezeDuration,
		mode:      RandomizeBackground,
		queueSize: defaultQueueSize,
	}
}

// WithFreezeDuration sets the captured window length in seconds. The frame
// count is rounded up to a power of two at Prepare.
func WithFreezeDuration(seconds float64) Option {
	return func(c *config) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			c.duration = seconds
		}
	}
}

// WithFrameCount pins the captured window to an explicit power-of-two frame
// count, ignoring the freeze duration.
func WithFrameCount(frames int) Option {
	return func(c *config) {
		c.frames = frames
	}
}

// WithRandomizer selects the phase randomization mode.
func WithRandomizer(mode RandomizerMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithSeed makes phase randomization reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seeded = true
		c.seed = seed
	}
}

// WithQueueSize sets the command queue capacity.
func WithQueueSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithLogger sets the logger used off the audio thread.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// frameCount returns the ring capacity for sampleRate.
func (c config) frameCount(sampleRate float64) (int, error) {
	if c.frames != 0 {
		if c.frames < 2 || c.frames&(c.frames-1) != 0 {
			return 0, fmt.Errorf("freeze frame count must be power-of-two and >= 2: %d", c.frames)
		}

		return c.frames, nil
	}

	return RingFrames(c.duration, sampleRate), nil
}

// RingFrames returns the ring capacity used for a freeze of the given
// duration: the frame count rounded up to a power of two, at least 2.
func RingFrames(seconds, sampleRate float64) int {
	n := int(math.Ceil(seconds * sampleRate))

	size := 2
	for size < n {
		size <<= 1
	}

	return size
}
