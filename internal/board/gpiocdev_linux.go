//go:build linux

package board

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"libdb.so/knightrider/scanner"
)

// GPIOCdev is a board wired to the GPIO character device of a Linux host.
// The LED lines are requested as one set of outputs. The button line is an
// input with pull-up bias reporting falling edges; the kernel timestamps
// each edge.
type GPIOCdev struct {
	leds   *gpiocdev.Lines
	button *gpiocdev.Line
	n      int
	logger *slog.Logger

	// Written by the line watcher; MUST NOT block it.
	edges chan scanner.Instant
	drops atomic.Uint32
}

var _ Board = (*GPIOCdev)(nil)

// OpenGPIOCdev requests the configured lines.
func OpenGPIOCdev(cfg GPIOCdevConfig, logger *slog.Logger) (*GPIOCdev, error) {
	chip := cfg.Chip
	if chip == "" {
		chip = defaultChip
	}

	b := &GPIOCdev{
		n:      len(cfg.LEDLines),
		logger: logger,
		edges:  make(chan scanner.Instant, 8),
	}

	leds, err := gpiocdev.RequestLines(chip, cfg.LEDLines,
		gpiocdev.AsOutput(make([]int, len(cfg.LEDLines))...),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to request LED lines on %s", chip)
	}
	b.leds = leds

	button, err := gpiocdev.RequestLine(chip, cfg.ButtonLine,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(b.handleEvent),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		leds.Close()
		return nil, errors.Wrapf(err, "failed to request button line %d on %s", cfg.ButtonLine, chip)
	}
	b.button = button

	return b, nil
}

func (b *GPIOCdev) handleEvent(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	select {
	case b.edges <- millis(evt.Timestamp):
	default:
		b.drops.Add(1)
	}
}

// Show implements Board.
func (b *GPIOCdev) Show(f scanner.Frame) error {
	return b.leds.SetValues(f.Values(b.n))
}

// Watch implements Board.
func (b *GPIOCdev) Watch(ctx context.Context, edge func(scanner.Instant)) error {
	for {
		select {
		case <-ctx.Done():
			if drops := b.drops.Load(); drops > 0 {
				b.logger.Warn("dropped button edges", "count", drops)
			}
			return ctx.Err()
		case t := <-b.edges:
			edge(t)
		}
	}
}

// Close implements Board.
func (b *GPIOCdev) Close() error {
	if err := b.Show(scanner.Blank); err != nil {
		b.logger.Warn("failed to clear LEDs", "error", err)
	}
	berr := b.button.Close()
	if err := b.leds.Close(); err != nil {
		return errors.Wrap(err, "failed to release LED lines")
	}
	return errors.Wrap(berr, "failed to release button line")
}
