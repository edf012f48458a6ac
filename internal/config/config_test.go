package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
)

var envVars = []string{
	"FREEZE_SAMPLE_RATE", "FREEZE_BLOCK_SIZE", "FREEZE_CHANNELS", "FREEZE_DURATION",
	"FREEZE_FRAMES", "FREEZE_RANDOMIZE", "FREEZE_SEED", "FREEZE_GAIN", "FREEZE_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %v, want 44100", cfg.SampleRate)
	}
	if cfg.BlockSize != 512 {
		t.Errorf("BlockSize = %d, want 512", cfg.BlockSize)
	}
	if cfg.Channels != 2 {
		t.Errorf("Channels = %d, want 2", cfg.Channels)
	}
	if cfg.Duration != 0.3 {
		t.Errorf("Duration = %v, want 0.3", cfg.Duration)
	}
	if cfg.Frames != 0 || cfg.Seed != 0 {
		t.Errorf("Frames = %d, Seed = %d, want 0", cfg.Frames, cfg.Seed)
	}
	if cfg.Randomize != "background" {
		t.Errorf("Randomize = %q, want background", cfg.Randomize)
	}
	if cfg.Gain != 1 {
		t.Errorf("Gain = %v, want 1", cfg.Gain)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREEZE_SAMPLE_RATE", "48000")
	t.Setenv("FREEZE_BLOCK_SIZE", "256")
	t.Setenv("FREEZE_FRAMES", "8192")
	t.Setenv("FREEZE_RANDOMIZE", "Inline")
	t.Setenv("FREEZE_SEED", "42")
	t.Setenv("FREEZE_LOG_LEVEL", "debug")
	t.Setenv("FREEZE_CHANNELS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SampleRate != 48000 || cfg.BlockSize != 256 || cfg.Frames != 8192 || cfg.Seed != 42 {
		t.Fatalf("Load() = %+v", cfg)
	}

	if cfg.Channels != 2 {
		t.Errorf("Channels = %d, want default 2 for unparsable value", cfg.Channels)
	}

	mode, err := cfg.RandomizerMode()
	if err != nil || mode != freeze.RandomizeInline {
		t.Fatalf("RandomizerMode() = %v, %v, want inline", mode, err)
	}

	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}

	if got := len(cfg.EngineOptions(slog.Default())); got != 5 {
		t.Errorf("EngineOptions() returned %d options, want 5", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("FREEZE_BLOCK_SIZE", "128")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "FREEZE_DURATION=1.5\nFREEZE_BLOCK_SIZE=1024\n"

	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	cfg, err := Load(filepath.Join(dir, "missing.env"), envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Duration != 1.5 {
		t.Errorf("Duration = %v, want 1.5 from env file", cfg.Duration)
	}

	if cfg.BlockSize != 128 {
		t.Errorf("BlockSize = %d, want 128 (environment wins)", cfg.BlockSize)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		SampleRate: 44100, BlockSize: 512, Channels: 2, Duration: 0.3,
		Randomize: "off", Gain: 1, LogLevel: "warn",
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"block size", func(c *Config) { c.BlockSize = -1 }},
		{"channels", func(c *Config) { c.Channels = 0 }},
		{"duration", func(c *Config) { c.Duration = 0 }},
		{"frames not power of two", func(c *Config) { c.Frames = 1000 }},
		{"frames negative", func(c *Config) { c.Frames = -2 }},
		{"gain", func(c *Config) { c.Gain = -0.5 }},
		{"randomize", func(c *Config) { c.Randomize = "sometimes" }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() expected error")
			}
		})
	}
}
