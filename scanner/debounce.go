package scanner

import "sync/atomic"

// armed marks the debounce clock as holding an accepted edge. The low 32 bits
// hold the Instant of that edge.
const armed = 1 << 32

// Debouncer drops button edges that arrive too soon after the last accepted
// one. The zero value is not usable; use NewDebouncer.
type Debouncer struct {
	window Instant
	last   atomic.Uint64
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer(window Instant) *Debouncer {
	return &Debouncer{window: window}
}

// Window returns the debounce window.
func (d *Debouncer) Window() Instant { return d.window }

// Accept reports whether an edge at now should be acted on. An accepted edge
// becomes the new reference point; a rejected one changes nothing. The first
// edge is always accepted.
func (d *Debouncer) Accept(now Instant) bool {
	for {
		prev := d.last.Load()
		if prev&armed != 0 && now-Instant(prev) <= d.window {
			return false
		}
		if d.last.CompareAndSwap(prev, armed|uint64(now)) {
			return true
		}
	}
}

// Last returns the instant of the last accepted edge. ok is false if no edge
// was accepted yet.
func (d *Debouncer) Last() (last Instant, ok bool) {
	v := d.last.Load()
	return Instant(v), v&armed != 0
}
