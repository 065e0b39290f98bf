package scanner

import "sync/atomic"

// animation packs the scan position and direction into one word so that both
// change together. The low 16 bits are the position; reverse is set while
// the scan moves towards LED 0. The bits above reverse count resets, so a
// tick that read the word before a reset cannot write over it.
type animation uint32

const (
	positionMask animation = 0xFFFF
	reverse      animation = 1 << 16
	epochShift             = 17
)

func (a animation) position() int { return int(a & positionMask) }

func (a animation) direction() int {
	if a&reverse != 0 {
		return -1
	}
	return 1
}

// step moves one LED along and reflects at either end. The reflection is
// checked after moving, so the end LED stays lit for a whole tick.
func (a animation) step(n int) animation {
	pos := a.position() + a.direction()
	dir := a & reverse
	if pos == 0 || pos == n-1 {
		dir ^= reverse
	}
	return a&^(positionMask|reverse) | dir | animation(pos)
}

// rewound returns the start of the animation, LED 0 moving forward, in the
// next reset epoch.
func (a animation) rewound() animation {
	return (a>>epochShift + 1) << epochShift
}

// Snapshot is a copy of the controller state at one instant.
type Snapshot struct {
	Mode      Mode
	Position  int
	Direction int // +1 or -1
}

// Controller owns the scanner state. Tick is meant to be called from a
// periodic clock and Press from a button edge; the two may run concurrently
// with each other.
type Controller struct {
	n        int
	policy   Policy
	out      Output
	debounce *Debouncer

	mode atomic.Uint32 // Mode
	anim atomic.Uint32 // animation
}

// NewController creates a new stopped controller and blanks the output.
func NewController(cfg Config, out Output) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		n:        cfg.NumLEDs,
		policy:   cfg.Policy,
		out:      out,
		debounce: NewDebouncer(cfg.DebounceWindow),
	}
	out.Show(Blank)
	return c, nil
}

// NumLEDs returns the number of LEDs the controller scans.
func (c *Controller) NumLEDs() int { return c.n }

// Policy returns the button policy.
func (c *Controller) Policy() Policy { return c.policy }

// Mode returns the current run state.
func (c *Controller) Mode() Mode { return Mode(c.mode.Load()) }

// State returns a snapshot of the controller state.
func (c *Controller) State() Snapshot {
	a := animation(c.anim.Load())
	return Snapshot{
		Mode:      c.Mode(),
		Position:  a.position(),
		Direction: a.direction(),
	}
}

// Tick advances the animation by one LED if the scanner is running.
// It never blocks.
func (c *Controller) Tick() {
	switch c.Mode() {
	case Running:
		c.advance()
	case ResetPending:
		if c.mode.CompareAndSwap(uint32(ResetPending), uint32(Stopped)) {
			c.reset()
		}
	}
}

func (c *Controller) advance() {
	var next animation
	for {
		prev := c.anim.Load()
		if c.Mode() != Running {
			return
		}
		next = animation(prev).step(c.n)
		if c.anim.CompareAndSwap(prev, uint32(next)) {
			break
		}
	}

	c.out.Show(FrameAt(next.position()))

	// A stop that raced with this tick may have blanked the LEDs before the
	// frame above went out.
	if c.Mode() == Stopped {
		c.out.Show(Blank)
	}
}

// Press handles a falling edge of the button seen at now. Edges within the
// debounce window of the last accepted edge are dropped.
func (c *Controller) Press(now Instant) Transition {
	if !c.debounce.Accept(now) {
		return Bounced
	}

	switch c.policy {
	case CyclePolicy:
		return c.cycle()
	default:
		return c.toggle()
	}
}

func (c *Controller) toggle() Transition {
	if c.mode.CompareAndSwap(uint32(Stopped), uint32(Running)) {
		return Started
	}
	c.Stop()
	return StoppedAndReset
}

func (c *Controller) cycle() Transition {
	for {
		m := c.Mode()
		next := m + 1
		if next > ResetPending {
			next = Running
		}
		if !c.mode.CompareAndSwap(uint32(m), uint32(next)) {
			continue
		}
		switch next {
		case Running:
			return Started
		case Paused:
			return PausedFrame
		default:
			return ResetRequested
		}
	}
}

// Start sets the scanner running from wherever the animation is. The LEDs
// are not touched until the next tick.
func (c *Controller) Start() {
	c.mode.Store(uint32(Running))
}

// Stop stops the scanner, rewinds the animation to LED 0 moving forward and
// blanks the LEDs. Stopping a stopped scanner only blanks the LEDs again.
func (c *Controller) Stop() {
	c.mode.Store(uint32(Stopped))
	c.reset()
}

func (c *Controller) reset() {
	for {
		prev := c.anim.Load()
		if c.anim.CompareAndSwap(prev, uint32(animation(prev).rewound())) {
			break
		}
	}
	c.out.Show(Blank)
}
