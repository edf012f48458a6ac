// Package player provides the live transport that feeds the freeze engine:
// an in-memory decoded Source and a Transport with start/stop, positioning
// and block pulls that are safe to drive from the audio callback.
package player
