// Command freezerender renders an audio file through the freeze effect
// offline, following a timed command script, and writes the result as WAV.
//
// Usage:
//
//	freezerender -in input.wav -out frozen.wav [-script "0:play,1.5:freeze,4:play"]
//
// Script entries are "seconds:command" with command play, stop or freeze.
// The source is opened before the first entry.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
	"github.com/cwbudde/algo-freeze/internal/audiofile"
	"github.com/cwbudde/algo-freeze/internal/config"
	"github.com/cwbudde/algo-freeze/internal/control"
	"github.com/cwbudde/algo-freeze/internal/player"
)

func main() {
	if err := run(); err != nil {
		slog.Error("freezerender failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	in := flag.String("in", "", "input .wav or .mp3 file")
	out := flag.String("out", "frozen.wav", "output .wav file")
	script := flag.String("script", "0:play", "timed commands, e.g. \"0:play,1.5:freeze,4:play\"")
	length := flag.Float64("length", 0, "output length in seconds (0 = source length)")
	bits := flag.Int("bits", 16, "output bit depth: 16, 24 or 32")
	rate := flag.Float64("rate", 0, "render sample rate in Hz (0 = source rate)")
	flag.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "frames per processed block")
	flag.Float64Var(&cfg.Duration, "duration", cfg.Duration, "freeze window length in seconds")
	flag.StringVar(&cfg.Randomize, "randomize", "inline", "phase randomization: background, inline or off")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for phase randomization (0 = random)")
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: freezerender -in file [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a file through the freeze effect and writes WAV.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return errors.New("missing -in")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	events, err := control.ParseScript(*script)
	if err != nil {
		return err
	}

	src, err := audiofile.Decode(*in)
	if err != nil {
		return err
	}

	if *rate > 0 {
		cfg.SampleRate = *rate
	} else {
		cfg.SampleRate = src.SampleRate()
	}

	cfg.Channels = max(src.Channels(), 1)

	transport := player.NewTransport()

	engine, err := freeze.New(transport, cfg.Channels, cfg.EngineOptions(logger)...)
	if err != nil {
		return err
	}

	if err := engine.Prepare(cfg.SampleRate, cfg.BlockSize); err != nil {
		return err
	}
	defer engine.Release()

	ctrl := control.New(engine, transport,
		control.WithLogger(logger),
		control.WithSampleRate(cfg.SampleRate),
		control.WithDecoder(func(string) (*player.Source, error) { return src, nil }))

	if err := ctrl.Open(*in); err != nil {
		return err
	}

	seconds := *length
	if seconds <= 0 {
		seconds = src.Duration()
	}

	r := renderer{engine: engine, ctrl: ctrl, logger: logger}

	rendered, err := r.render(events, cfg.SampleRate, cfg.BlockSize, int(seconds*cfg.SampleRate))
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := audiofile.WriteWAV(f, rendered, int(cfg.SampleRate), *bits); err != nil {
		return err
	}

	logger.Info("rendered",
		"in", *in,
		"out", *out,
		"seconds", seconds,
		"events", len(events),
		"freeze_frames", engine.FrameCount())

	return f.Close()
}
