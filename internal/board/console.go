package board

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"libdb.so/knightrider/scanner"
)

// Console is a board without hardware. Frames are drawn as one line of text
// per frame and every line read from the input counts as a button press.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	r     io.Reader
	n     int
	lit   string
	dark  string
	start time.Time
}

var _ Board = (*Console)(nil)

// NewConsole creates a console board drawing n LEDs to w and reading presses
// from r.
func NewConsole(cfg ConsoleConfig, n int, r io.Reader, w io.Writer) *Console {
	c := &Console{
		w:     w,
		r:     r,
		n:     n,
		lit:   cfg.Lit,
		dark:  cfg.Dark,
		start: time.Now(),
	}
	if c.lit == "" {
		c.lit = "●"
	}
	if c.dark == "" {
		c.dark = "○"
	}
	return c
}

// Show implements Board.
func (c *Console) Show(f scanner.Frame) error {
	var line strings.Builder
	for i := 0; i < c.n; i++ {
		if f.Lit(i) {
			line.WriteString(c.lit)
		} else {
			line.WriteString(c.dark)
		}
	}
	line.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.w, line.String())
	return err
}

// Watch implements Board. Input reaching EOF stops the presses but not the
// watch; it still returns only when ctx is done.
func (c *Console) Watch(ctx context.Context, edge func(scanner.Instant)) error {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.r)
		for sc.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			edge(millis(time.Since(c.start)))
		}
	}
}

// Close implements Board.
func (c *Console) Close() error {
	return c.Show(scanner.Blank)
}
