package freeze

import "errors"

var (
	// ErrCommandUnavailable is returned when a command is not enabled in the
	// current state.
	ErrCommandUnavailable = errors.New("freeze: command unavailable")
	// ErrQueueFull is returned when the command queue has no free slot.
	ErrQueueFull = errors.New("freeze: command queue full")
	// ErrNotPrepared is returned by Process before Prepare or after Release.
	ErrNotPrepared = errors.New("freeze: engine not prepared")
	// ErrInvalidBlock is returned for blocks whose shape does not match the engine.
	ErrInvalidBlock = errors.New("freeze: invalid block")
)
