// Package window builds the Hann crossfade envelope used by the freeze loop.
//
// The periodic Hann form satisfies w[i] + w[(i+N/2) mod N] = 1 for every i,
// so two taps half a table apart, weighted by w and 1-w, crossfade with
// constant gain. The symmetric form does not and is kept for comparison.
package window
