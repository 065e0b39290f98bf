package xiao

import (
	"image/color"
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ws2812"
)

// StatusLED is the RGB LED on the board itself.
type StatusLED struct {
	led   ws2812.Device
	power machine.Pin
}

// NewStatusLED configures the on-board RGB LED.
func NewStatusLED() *StatusLED {
	// https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/
	power := machine.GPIO11
	power.Configure(machine.PinConfig{Mode: machine.PinOutput})
	power.Low()

	machine.GPIO12.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &StatusLED{
		led:   ws2812.New(machine.GPIO12),
		power: power,
	}
}

// Set lights the LED in the given color.
func (s *StatusLED) Set(c color.RGBA) {
	s.power.High()
	critical(func() { s.led.WriteColors([]color.RGBA{c}) })
}

// Off turns the LED off.
func (s *StatusLED) Off() {
	s.power.Low()
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}
