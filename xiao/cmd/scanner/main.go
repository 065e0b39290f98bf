// Command scanner runs the bouncing LED scanner on the board by itself.
//
// The button interrupt calls straight into the controller. Ticks come from a
// ticker on the main goroutine, which any interrupt preempts, so a press is
// never starved by the animation.
package main

import (
	"image/color"
	"machine"
	"time"

	"libdb.so/knightrider/scanner"
	"libdb.so/knightrider/xiao"
)

const (
	tickPeriod = 100 * time.Millisecond
	// debounceWindow is in milliseconds, the unit of xiao.Millis.
	debounceWindow = scanner.DefaultDebounceWindow
	policy         = scanner.TogglePolicy
)

var modeColors = map[scanner.Mode]color.RGBA{
	scanner.Stopped:      {R: 0x20},
	scanner.Running:      {G: 0x20},
	scanner.Paused:       {R: 0x20, G: 0x10},
	scanner.ResetPending: {B: 0x20},
}

func main() {
	xiao.ConfigureLEDs()

	ctrl, err := scanner.NewController(scanner.Config{
		NumLEDs:        len(xiao.LEDs),
		DebounceWindow: debounceWindow,
		Policy:         policy,
	}, scanner.OutputFunc(xiao.ShowFrame))
	if err != nil {
		panic(err.Error())
	}

	xiao.Button.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	err = xiao.Button.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		ctrl.Press(xiao.Millis())
	})
	if err != nil {
		panic(err.Error())
	}

	status := xiao.NewStatusLED()
	shown := scanner.Mode(0xFF)

	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	for range ticker.C {
		ctrl.Tick()

		if mode := ctrl.Mode(); mode != shown {
			status.Set(modeColors[mode])
			shown = mode
		}
	}
}
