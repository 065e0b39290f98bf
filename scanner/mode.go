package scanner

import (
	"encoding"
	"fmt"
)

// Mode is the run state of the scanner.
type Mode uint32

const (
	// Stopped means the scanner is idle and the LEDs are dark.
	Stopped Mode = iota
	// Running means every tick advances the lit LED.
	Running
	// Paused keeps the last frame lit without advancing. Only CyclePolicy
	// enters it.
	Paused
	// ResetPending asks the next tick to blank the LEDs and fall back to
	// Stopped. Only CyclePolicy enters it.
	ResetPending
)

func (m Mode) String() string {
	switch m {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case ResetPending:
		return "reset-pending"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// Policy is the way accepted button edges move between modes.
type Policy uint8

const (
	// TogglePolicy flips between Stopped and Running. Stopping resets the
	// animation and blanks the LEDs.
	TogglePolicy Policy = iota
	// CyclePolicy steps Stopped → Running → Paused → ResetPending → Running.
	// The reset itself happens on the tick following ResetPending.
	CyclePolicy
)

var (
	_ encoding.TextUnmarshaler = (*Policy)(nil)
	_ encoding.TextMarshaler   = Policy(0)
)

func (p Policy) String() string {
	switch p {
	case TogglePolicy:
		return "toggle"
	case CyclePolicy:
		return "cycle"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// UnmarshalText parses "toggle" or "cycle".
func (p *Policy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "toggle", "":
		*p = TogglePolicy
	case "cycle":
		*p = CyclePolicy
	default:
		return fmt.Errorf("unknown policy %q", text)
	}
	return nil
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Transition describes what a button press did.
type Transition uint8

const (
	// Bounced means the edge fell inside the debounce window and was
	// dropped.
	Bounced Transition = iota
	// Started means the scanner went to Running.
	Started
	// StoppedAndReset means the scanner went to Stopped, the animation was
	// reset and the LEDs were blanked.
	StoppedAndReset
	// PausedFrame means the scanner went to Paused.
	PausedFrame
	// ResetRequested means the scanner went to ResetPending.
	ResetRequested
)

func (t Transition) String() string {
	switch t {
	case Bounced:
		return "bounced"
	case Started:
		return "started"
	case StoppedAndReset:
		return "stopped"
	case PausedFrame:
		return "paused"
	case ResetRequested:
		return "reset-requested"
	default:
		return fmt.Sprintf("Transition(%d)", uint8(t))
	}
}
