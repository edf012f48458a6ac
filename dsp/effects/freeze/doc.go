// Package freeze implements a real-time freeze effect.
//
// The [Engine] continuously captures live audio into a ring buffer. On a
// Freeze command it fades the live signal toward the captured material over
// half a buffer (the forecast), then loops the captured window with a
// two-tap Hann crossfade whose taps sit half a buffer apart, so the loop has
// no seam. Play resumes live audio from the point it was captured, fading the
// loop tail out (the thaw). Once the loop engages, the captured window can be
// phase-randomized so the loop does not repeat an identical waveform.
//
// Commands arrive from a control goroutine through a lock-free
// single-producer queue and are applied at the start of the next block.
// Process must be called from one goroutine only (the audio callback); it does
// not allocate or lock.
package freeze
