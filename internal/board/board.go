// Package board connects the scanner to physical LED lines and a button.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"libdb.so/knightrider/scanner"
)

// Board is a set of LED lines and a button.
type Board interface {
	// Show drives the LED lines to match the frame.
	Show(scanner.Frame) error
	// Watch calls edge for every falling edge on the button line until ctx is
	// done. Edges are stamped in milliseconds; edge must not block.
	Watch(ctx context.Context, edge func(scanner.Instant)) error
	// Close turns the LEDs off and releases the lines.
	Close() error
}

// Config selects and configures a board backend.
type Config struct {
	// Only one of the following fields should be set.
	// If none are set, then the console board is used.

	// Serial is an LED board running the ledserial firmware.
	Serial *SerialConfig `toml:"serial,omitempty"`
	// GPIOCdev is a set of lines on a Linux GPIO character device.
	GPIOCdev *GPIOCdevConfig `toml:"gpiocdev,omitempty"`
	// Periph is a set of pins known to periph.io.
	Periph *PeriphConfig `toml:"periph,omitempty"`
	// Console draws the LEDs on stdout and reads button presses from stdin.
	Console *ConsoleConfig `toml:"console,omitempty"`
}

// SerialConfig is the configuration for the serial board.
type SerialConfig struct {
	// Device is the path to the device file for the board.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
}

// GPIOCdevConfig is the configuration for the GPIO character device board.
type GPIOCdevConfig struct {
	// Chip is the name of the GPIO chip, e.g. gpiochip0.
	Chip string `toml:"chip"`
	// LEDLines are the line offsets of the LEDs, in scan order.
	LEDLines []int `toml:"led_lines"`
	// ButtonLine is the line offset of the button.
	ButtonLine int `toml:"button_line"`
}

// PeriphConfig is the configuration for the periph.io board.
type PeriphConfig struct {
	// LEDPins are the names of the LED pins, in scan order, e.g. GPIO17.
	LEDPins []string `toml:"led_pins"`
	// ButtonPin is the name of the button pin.
	ButtonPin string `toml:"button_pin"`
}

// ConsoleConfig is the configuration for the console board.
type ConsoleConfig struct {
	// Lit is drawn for a lit LED. It defaults to "●".
	Lit string `toml:"lit"`
	// Dark is drawn for a dark LED. It defaults to "○".
	Dark string `toml:"dark"`
}

const (
	defaultBaud = 115200
	defaultChip = "gpiochip0"
	consumer    = "knightrider"
)

// Validate validates the configuration for a scanner of numLEDs LEDs.
func (c *Config) Validate(numLEDs int) error {
	var set int
	if c.Serial != nil {
		set++
		if c.Serial.Device == "" {
			return errors.New("serial board needs a device")
		}
		if c.Serial.Baud < 0 {
			return fmt.Errorf("invalid baud rate %d", c.Serial.Baud)
		}
	}
	if c.GPIOCdev != nil {
		set++
		if len(c.GPIOCdev.LEDLines) != numLEDs {
			return fmt.Errorf("gpiocdev board has %d LED lines for %d LEDs", len(c.GPIOCdev.LEDLines), numLEDs)
		}
	}
	if c.Periph != nil {
		set++
		if len(c.Periph.LEDPins) != numLEDs {
			return fmt.Errorf("periph board has %d LED pins for %d LEDs", len(c.Periph.LEDPins), numLEDs)
		}
		if c.Periph.ButtonPin == "" {
			return errors.New("periph board needs a button pin")
		}
	}
	if c.Console != nil {
		set++
	}
	if set > 1 {
		return errors.New("only one board may be configured")
	}
	return nil
}

// Open opens the configured board for a scanner of numLEDs LEDs.
func Open(cfg Config, numLEDs int, logger *slog.Logger) (Board, error) {
	switch {
	case cfg.Serial != nil:
		b, err := OpenSerial(*cfg.Serial, numLEDs, logger)
		if err != nil {
			return nil, err
		}
		return b, nil

	case cfg.GPIOCdev != nil:
		b, err := OpenGPIOCdev(*cfg.GPIOCdev, logger)
		if err != nil {
			return nil, err
		}
		return b, nil

	case cfg.Periph != nil:
		b, err := OpenPeriph(*cfg.Periph)
		if err != nil {
			return nil, err
		}
		return b, nil

	case cfg.Console != nil:
		return NewConsole(*cfg.Console, numLEDs, os.Stdin, os.Stdout), nil

	default:
		return NewConsole(ConsoleConfig{}, numLEDs, os.Stdin, os.Stdout), nil
	}
}

// millis converts an elapsed duration to a millisecond Instant. The result
// wraps like a hardware counter.
func millis(d time.Duration) scanner.Instant {
	return scanner.Instant(d / time.Millisecond)
}
