// Package knightrider runs a bouncing LED scanner on a board, starting and
// stopping it with a push button.
package knightrider

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/knightrider/internal/board"
	"libdb.so/knightrider/scanner"
)

// Clock is a periodic source of animation ticks.
type Clock interface {
	// Ticks calls tick once per period until ctx is done. tick must not
	// block.
	Ticks(ctx context.Context, tick func()) error
}

// Ticker is a Clock backed by a time.Ticker.
type Ticker struct {
	Period time.Duration
}

var _ Clock = Ticker{}

// Ticks implements Clock.
func (t Ticker) Ticks(ctx context.Context, tick func()) error {
	ticker := time.NewTicker(t.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}

// Daemon is the main knightrider daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new knightrider daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run opens the configured board and runs the scanner on it. It blocks until
// the given context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	b, err := board.Open(d.cfg.Board, d.cfg.LEDs, d.logger)
	if err != nil {
		return errors.Wrap(err, "failed to open board")
	}

	return d.run(ctx, b, Ticker{Period: time.Duration(d.cfg.Tick)})
}

// run runs the scanner on b until ctx is canceled or the board fails. b is
// closed before run returns.
func (d *Daemon) run(ctx context.Context, b board.Board, clock Clock) error {
	defer func() {
		d.logger.Debug("closing board")
		if err := b.Close(); err != nil {
			d.logger.Warn("failed to close board", "error", err)
		}
	}()

	ctrl, err := scanner.NewController(d.cfg.ScannerConfig(), &ledOutput{
		board:  b,
		logger: d.logger,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create scanner")
	}

	d.logger.Info(
		"scanner ready",
		"leds", ctrl.NumLEDs(),
		"tick", time.Duration(d.cfg.Tick),
		"debounce", time.Duration(d.cfg.Debounce),
		"policy", ctrl.Policy())

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return clock.Ticks(ctx, ctrl.Tick)
	})
	errg.Go(func() error {
		return b.Watch(ctx, func(t scanner.Instant) {
			d.press(ctrl, t)
		})
	})

	return errg.Wait()
}

func (d *Daemon) press(ctrl *scanner.Controller, t scanner.Instant) {
	tr := ctrl.Press(t)
	if tr == scanner.Bounced {
		d.logger.Debug(
			"dropped bounced button edge",
			"at_ms", uint32(t))
		return
	}

	d.logger.Info(
		"button pressed",
		"transition", tr,
		"mode", ctrl.Mode(),
		"at_ms", uint32(t))
}
