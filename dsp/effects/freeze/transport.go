package freeze

// Transport is the live playback collaborator. Positions are in frames.
type Transport interface {
	Start()
	Stop()
	SetPosition(frame int64)
	NextReadPosition() int64
	SetNextReadPosition(frame int64)
	// NextAudioBlock fills block with the next live frames, or silence when
	// stopped or past the end of the source.
	NextAudioBlock(block [][]float64)
}
