// Package spectral provides in-place frequency-domain transforms over a
// captured window of samples.
//
// Randomizer replaces the phase of every bin except DC and Nyquist with a
// uniformly drawn angle while keeping the magnitude spectrum, so a looped
// window no longer repeats an obviously identical waveform. The transform
// backend is algo-fft; the window length must be a power of two.
package spectral
