// Package config handles host configuration for the freeze binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
)

type Config struct {
	SampleRate float64
	BlockSize  int
	Channels   int
	Duration   float64 // seconds
	Frames     int     // 0 derives the ring size from Duration
	Randomize  string  // background, inline or off
	Seed       uint64  // 0 draws a fresh seed per freeze
	Gain       float64
	LogLevel   string
}

// Load reads the configuration from the environment. Each env file that
// exists is loaded first; variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	cfg := &Config{
		SampleRate: getEnvFloat("FREEZE_SAMPLE_RATE", 44100),
		BlockSize:  getEnvInt("FREEZE_BLOCK_SIZE", 512),
		Channels:   getEnvInt("FREEZE_CHANNELS", 2),
		Duration:   getEnvFloat("FREEZE_DURATION", 0.3),
		Frames:     getEnvInt("FREEZE_FRAMES", 0),
		Randomize:  getEnv("FREEZE_RANDOMIZE", freeze.RandomizeBackground.String()),
		Seed:       getEnvUint("FREEZE_SEED", 0),
		Gain:       getEnvFloat("FREEZE_GAIN", 1),
		LogLevel:   getEnv("FREEZE_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("config: sample rate must be > 0: %v", c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("config: block size must be > 0: %d", c.BlockSize)
	case c.Channels <= 0:
		return fmt.Errorf("config: channel count must be > 0: %d", c.Channels)
	case c.Duration <= 0:
		return fmt.Errorf("config: freeze duration must be > 0: %v", c.Duration)
	case c.Frames < 0 || (c.Frames != 0 && (c.Frames < 2 || c.Frames&(c.Frames-1) != 0)):
		return fmt.Errorf("config: frame count must be 0 or a power of two >= 2: %d", c.Frames)
	case c.Gain < 0:
		return fmt.Errorf("config: gain must be >= 0: %v", c.Gain)
	}

	if _, err := c.RandomizerMode(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// RandomizerMode parses Randomize.
func (c *Config) RandomizerMode() (freeze.RandomizerMode, error) {
	return freeze.ParseRandomizerMode(strings.ToLower(c.Randomize))
}

// SlogLevel returns the configured log level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// EngineOptions translates the settings into freeze engine options.
func (c *Config) EngineOptions(logger *slog.Logger) []freeze.Option {
	opts := []freeze.Option{
		freeze.WithFreezeDuration(c.Duration),
		freeze.WithLogger(logger),
	}

	if c.Frames > 0 {
		opts = append(opts, freeze.WithFrameCount(c.Frames))
	}

	if mode, err := c.RandomizerMode(); err == nil {
		opts = append(opts, freeze.WithRandomizer(mode))
	}

	if c.Seed != 0 {
		opts = append(opts, freeze.WithSeed(c.Seed))
	}

	return opts
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", s, err)
	}

	return level, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvUint(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
