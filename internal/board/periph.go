package board

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"libdb.so/knightrider/scanner"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long Watch waits for an edge before checking whether
// it should return.
const edgePoll = 100 * time.Millisecond

// Periph is a board whose pins are looked up by name through periph.io.
type Periph struct {
	leds   []gpio.PinIO
	button gpio.PinIO
	start  time.Time
}

var _ Board = (*Periph)(nil)

// OpenPeriph initializes the periph.io host drivers and configures the pins.
func OpenPeriph(cfg PeriphConfig) (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host")
	}

	b := &Periph{
		leds:  make([]gpio.PinIO, len(cfg.LEDPins)),
		start: time.Now(),
	}

	for i, name := range cfg.LEDPins {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Errorf("unknown LED pin %q", name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "failed to configure LED pin %s", name)
		}
		b.leds[i] = p
	}

	b.button = gpioreg.ByName(cfg.ButtonPin)
	if b.button == nil {
		return nil, errors.Errorf("unknown button pin %q", cfg.ButtonPin)
	}
	if err := b.button.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, errors.Wrapf(err, "failed to configure button pin %s", cfg.ButtonPin)
	}

	return b, nil
}

// Show implements Board.
func (b *Periph) Show(f scanner.Frame) error {
	for i, p := range b.leds {
		if err := p.Out(gpio.Level(f.Lit(i))); err != nil {
			return errors.Wrapf(err, "failed to drive LED pin %s", p.Name())
		}
	}
	return nil
}

// Watch implements Board. periph.io has no edge timestamps, so edges are
// stamped with the time since the board was opened.
func (b *Periph) Watch(ctx context.Context, edge func(scanner.Instant)) error {
	for ctx.Err() == nil {
		if b.button.WaitForEdge(edgePoll) {
			edge(millis(time.Since(b.start)))
		}
	}
	return ctx.Err()
}

// Close implements Board.
func (b *Periph) Close() error {
	if err := b.Show(scanner.Blank); err != nil {
		return err
	}
	return errors.Wrap(b.button.In(gpio.PullUp, gpio.NoEdge), "failed to disable button edges")
}
