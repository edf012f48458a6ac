// Package control is the command path of the freeze player. It loads
// sources, forwards transport commands to the engine and reports status.
// It never runs on the audio callback.
package control
