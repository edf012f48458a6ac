// Package resample converts decoded sources between sample rates.
//
// Conversion is rational (up/down) through a polyphase FIR designed from a
// Kaiser-windowed sinc. The filter group delay is compensated so that sample 0
// of the output lines up with sample 0 of the input, which keeps positions in
// a converted source meaningful to a transport.
package resample
