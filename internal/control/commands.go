package control

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-freeze/dsp/effects/freeze"
)

// ErrUnknownCommand is returned by Execute for unrecognized input.
var ErrUnknownCommand = errors.New("control: unknown command")

// Help lists the commands Execute understands.
const Help = `commands:
  open <path>  load a .wav or .mp3 file
  play         start playback, or thaw a frozen loop
  stop         stop playback
  freeze       freeze the current sound
  status       show state and output level
  help         show this text`

// Execute runs one line of text input and returns the text to show.
func (c *Controller) Execute(line string) (string, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error

	switch strings.ToLower(verb) {
	case "":
		return "", nil
	case "open", "o":
		if arg == "" {
			return "", errors.New("control: open needs a path")
		}

		err = c.Open(arg)
	case "play", "p":
		err = c.Play()
	case "stop", "s":
		err = c.Stop()
	case "freeze", "f":
		err = c.Freeze()
	case "status", "st":
	case "help", "h", "?":
		return Help, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
	}

	if err != nil {
		return "", err
	}

	return c.Status().String(), nil
}

// Event is a command scheduled at a time offset.
type Event struct {
	At      float64 // seconds
	Command freeze.Command
}

// ParseScript parses a comma-separated list of "seconds:command" entries,
// e.g. "0:play,1.5:freeze,4:play,6:stop". Events are returned in time order.
func ParseScript(script string) ([]Event, error) {
	var events []Event

	for _, entry := range strings.Split(script, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		at, name, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("control: script entry %q: want seconds:command", entry)
		}

		sec, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
		if err != nil || sec < 0 {
			return nil, fmt.Errorf("control: script entry %q: bad time", entry)
		}

		cmd, err := parseCommand(name)
		if err != nil {
			return nil, fmt.Errorf("control: script entry %q: %w", entry, err)
		}

		events = append(events, Event{At: sec, Command: cmd})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	return events, nil
}

func parseCommand(name string) (freeze.Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "play":
		return freeze.CommandPlay, nil
	case "stop":
		return freeze.CommandStop, nil
	case "freeze":
		return freeze.CommandFreeze, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}
