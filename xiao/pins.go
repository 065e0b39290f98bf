// Package xiao holds the wiring of the scanner on a Seeed XIAO RP2040.
package xiao

import (
	"machine"
	"time"

	"libdb.so/knightrider/scanner"
)

// LEDs are the LED lines in scan order. Each drives one LED, active-high.
var LEDs = [...]machine.Pin{
	machine.D0,
	machine.D1,
	machine.D2,
	machine.D3,
	machine.D4,
	machine.D5,
}

// Button is the push button line. It is pulled up and the button shorts it
// to ground, so a press is a falling edge.
var Button = machine.D6

var boot = time.Now()

// ConfigureLEDs configures every LED line as a low output.
func ConfigureLEDs() {
	for _, p := range LEDs {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
}

// ShowFrame drives the LED lines from f.
func ShowFrame(f scanner.Frame) {
	for i, p := range LEDs {
		p.Set(f.Lit(i))
	}
}

// Millis returns the milliseconds since boot as a wrapping counter. It is
// safe to call from an interrupt.
func Millis() scanner.Instant {
	return scanner.Instant(time.Since(boot) / time.Millisecond)
}
