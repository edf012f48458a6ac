// Command freezeplay plays an audio file through the freeze effect on the
// default output device and reads transport commands from stdin.
//
// Usage:
//
//	freezeplay [flags] [file]
//
// Commands (one per line): open <path>, play, stop, freeze, status, help.
//
// Settings come from FREEZE_* environment variables, optionally loaded from
// a .env file; flags override them.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
	"github.com/cwbudde/algo-freeze/internal/config"
	"github.com/cwbudde/algo-freeze/internal/control"
	"github.com/cwbudde/algo-freeze/internal/player"
)

func main() {
	if err := run(); err != nil {
		slog.Error("freezeplay failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	flag.Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "device sample rate in Hz")
	flag.IntVar(&cfg.BlockSize, "block", cfg.BlockSize, "frames per device buffer")
	flag.Float64Var(&cfg.Duration, "duration", cfg.Duration, "freeze window length in seconds")
	flag.StringVar(&cfg.Randomize, "randomize", cfg.Randomize, "phase randomization: background, inline or off")
	flag.Float64Var(&cfg.Gain, "gain", cfg.Gain, "linear playback gain")
	flag.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn or error")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: freezeplay [flags] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Plays a file with a real-time freeze effect.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n%s\n", control.Help)
	}
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	transport := player.NewTransport()
	transport.SetGain(cfg.Gain)

	engine, err := freeze.New(transport, cfg.Channels, cfg.EngineOptions(logger)...)
	if err != nil {
		return err
	}

	if err := engine.Prepare(cfg.SampleRate, cfg.BlockSize); err != nil {
		return err
	}
	defer engine.Release()

	ctrl := control.New(engine, transport, control.WithLogger(logger), control.WithSampleRate(cfg.SampleRate))

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	cb := newCallback(engine, cfg.Channels, cfg.BlockSize)

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.BlockSize, cb.process)
	if err != nil {
		return fmt.Errorf("portaudio: open output: %w", err)
	}
	defer func() { _ = stream.Close() }()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	defer func() { _ = stream.Stop() }()

	logger.Info("output started",
		"sample_rate", cfg.SampleRate,
		"block", cfg.BlockSize,
		"channels", cfg.Channels,
		"freeze_frames", engine.FrameCount(),
		"randomize", engine.RandomizerMode())

	if path := flag.Arg(0); path != "" {
		if err := ctrl.Open(path); err != nil {
			logger.Warn("initial open failed", "path", path, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pollTransport(ctx, ctrl)

	lines := make(chan string)
	go readLines(lines)

	fmt.Println(ctrl.Status())

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			out, err := ctrl.Execute(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}

			if out != "" {
				fmt.Println(out)
			}
		}
	}
}

func pollTransport(ctx context.Context, ctrl *control.Controller) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctrl.Poll() {
				fmt.Println(ctrl.Status())
			}
		}
	}
}

func readLines(lines chan<- string) {
	defer close(lines)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		lines <- sc.Text()
	}
}
