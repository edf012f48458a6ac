package freeze

import "strings"

// State is the transport state controlling which data path feeds the output.
type State int32

const (
	// StateUnprimed means no source has been loaded.
	StateUnprimed State = iota
	// StateStopped means a source is loaded and positioned at its start.
	StateStopped
	// StateStarting means live audio is playing (and being captured).
	StateStarting
	// StateStopping means the live transport has been stopped.
	StateStopping
	// StateFreezing means the forecast is running or the frozen loop is playing.
	StateFreezing
)

func (s State) String() string {
	switch s {
	case StateUnprimed:
		return "unprimed"
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateStopping:
		return "stopping"
	case StateFreezing:
		return "freezing"
	default:
		return "invalid"
	}
}

// Command is a transport command issued by the control path.
type Command uint8

const (
	// CommandOpen reports that a new source was loaded successfully.
	CommandOpen Command = iota + 1
	CommandPlay
	CommandStop
	CommandFreeze
)

func (c Command) String() string {
	switch c {
	case CommandOpen:
		return "open"
	case CommandPlay:
		return "play"
	case CommandStop:
		return "stop"
	case CommandFreeze:
		return "freeze"
	default:
		return "invalid"
	}
}

// CommandSet is a set of commands, used for the enable matrix.
type CommandSet uint8

func setOf(cmds ...Command) CommandSet {
	var s CommandSet
	for _, c := range cmds {
		s |= 1 << c
	}

	return s
}

// Has reports whether c is in the set.
func (s CommandSet) Has(c Command) bool { return s&(1<<c) != 0 }

func (s CommandSet) String() string {
	var names []string
	for _, c := range []Command{CommandOpen, CommandPlay, CommandStop, CommandFreeze} {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}

	return "{" + strings.Join(names, ",") + "}"
}

// Enabled returns the transport commands (Play, Stop, Freeze) valid in s.
// Open is always valid and is not part of the matrix.
func Enabled(s State) CommandSet {
	switch s {
	case StateStopped, StateStopping:
		return setOf(CommandPlay)
	case StateStarting:
		return setOf(CommandStop, CommandFreeze)
	case StateFreezing:
		return setOf(CommandStop, CommandPlay)
	default:
		return 0
	}
}

// Accepts reports whether cmd may be issued in state s.
func Accepts(s State, cmd Command) bool {
	return cmd == CommandOpen || Enabled(s).Has(cmd)
}

// next returns the state cmd leads to from s.
func next(s State, cmd Command) (State, bool) {
	if !Accepts(s, cmd) {
		return s, false
	}

	switch cmd {
	case CommandOpen:
		return StateStopped, true
	case CommandPlay:
		return StateStarting, true
	case CommandStop:
		return StateStopping, true
	case CommandFreeze:
		return StateFreezing, true
	default:
		return s, false
	}
}
