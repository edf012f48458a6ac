// Command freezeinfo prints the ring sizing and crossfade properties the
// freeze engine uses for given freeze durations.
//
// Usage:
//
//	freezeinfo [flags] [seconds ...]
//
// Examples:
//
//	freezeinfo
//	freezeinfo -rate 48000 0.1 0.3 1
//	freezeinfo -symmetric 0.3
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
	"github.com/cwbudde/algo-freeze/dsp/window"
)

type row struct {
	requested float64
	frames    int
	actual    float64
	fadeMs    float64
	sumError  float64
}

func main() {
	rate := flag.Float64("rate", 44100, "sample rate in Hz")
	symmetric := flag.Bool("symmetric", false, "also report the symmetric Hann table for comparison")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: freezeinfo [flags] [seconds ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints freeze ring sizes and crossfade table properties.\n")
		fmt.Fprintf(os.Stderr, "Without arguments it reports the default 0.3 s freeze.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *rate <= 0 {
		fmt.Fprintf(os.Stderr, "error: sample rate must be > 0\n")
		os.Exit(1)
	}

	durations := []float64{0.3}
	if flag.NArg() > 0 {
		durations = durations[:0]

		for _, arg := range flag.Args() {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v <= 0 {
				fmt.Fprintf(os.Stderr, "warning: ignoring duration %q\n", arg)
				continue
			}

			durations = append(durations, v)
		}
	}

	if len(durations) == 0 {
		fmt.Fprintf(os.Stderr, "error: no valid durations\n")
		os.Exit(1)
	}

	rows := make([]row, 0, len(durations))
	for _, d := range durations {
		r, err := analyze(d, *rate, *symmetric)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		rows = append(rows, r)
	}

	printRows(rows, *symmetric)
}

// analyze sizes the ring for seconds and measures how far the crossfade
// table is from w[i] + w[i+C/2] = 1.
func analyze(seconds, rate float64, symmetric bool) (row, error) {
	frames := freeze.RingFrames(seconds, rate)

	coeffs, err := tableCoeffs(frames, symmetric)
	if err != nil {
		return row{}, err
	}

	half := frames / 2

	var worst float64
	for i := range half {
		if e := math.Abs(coeffs[i] + coeffs[i+half] - 1); e > worst {
			worst = e
		}
	}

	return row{
		requested: seconds,
		frames:    frames,
		actual:    float64(frames) / rate,
		fadeMs:    1000 * float64(half) / rate,
		sumError:  worst,
	}, nil
}

func tableCoeffs(frames int, symmetric bool) ([]float64, error) {
	if symmetric {
		return window.Hann(frames, window.WithSymmetric())
	}

	table, err := window.NewTable(frames)
	if err != nil {
		return nil, err
	}

	return table.Coeffs(), nil
}

func printRows(rows []row, symmetric bool) {
	variant := "periodic"
	if symmetric {
		variant = "symmetric"
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Requested [s]\tFrames\tWindow [s]\tCrossfade [ms]\tMax |w[i]+w[i+C/2]-1| (%s)\n", variant); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%.4f\t%d\t%.4f\t%.1f\t%.3g\n", r.requested, r.frames, r.actual, r.fadeMs, r.sumError); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
