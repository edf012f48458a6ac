// Package audiofile decodes audio files into player sources and writes
// rendered output as PCM WAV.
package audiofile
