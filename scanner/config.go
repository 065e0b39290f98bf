// Package scanner implements the bouncing LED scanner: a tick-driven
// animation and a debounced button that starts and stops it.
//
// All state is held in atomic words so that Tick and Press may be called from
// two independent interrupt sources without locks.
package scanner

import (
	"fmt"
)

// MaxLEDs is the largest number of LEDs a Frame can describe.
const MaxLEDs = 64

// DefaultDebounceWindow is the debounce window used when none is given, in
// time units.
const DefaultDebounceWindow Instant = 200

// Instant is a reading of a free-running counter. Its unit is chosen by the
// caller (usually milliseconds). Differences are taken modulo 2^32, so the
// counter may wrap.
type Instant uint32

// Config is the build-time configuration of a Controller.
type Config struct {
	// NumLEDs is the number of LEDs in the array. It must be at least 2.
	NumLEDs int
	// DebounceWindow is the minimum gap between two accepted button edges.
	// Edges arriving within the window of the last accepted edge are
	// dropped.
	DebounceWindow Instant
	// Policy decides what an accepted button edge does.
	Policy Policy
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.NumLEDs < 2 {
		return fmt.Errorf("need at least 2 LEDs, got %d", c.NumLEDs)
	}
	if c.NumLEDs > MaxLEDs {
		return fmt.Errorf("at most %d LEDs are supported, got %d", MaxLEDs, c.NumLEDs)
	}
	if c.DebounceWindow == 0 {
		return fmt.Errorf("debounce window must be positive")
	}
	switch c.Policy {
	case TogglePolicy, CyclePolicy:
	default:
		return fmt.Errorf("unknown policy %s", c.Policy)
	}
	return nil
}
