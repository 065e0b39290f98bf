package scanner

import "testing"

func TestDebouncerWindowBoundary(t *testing.T) {
	d := NewDebouncer(200)

	if !d.Accept(1000) {
		t.Fatal("first edge rejected")
	}
	if d.Accept(1200) {
		t.Fatal("edge exactly one window later accepted")
	}
	if !d.Accept(1201) {
		t.Fatal("edge one unit past the window rejected")
	}

	if last, ok := d.Last(); !ok || last != 1201 {
		t.Fatalf("Last() = %d, %v; want 1201, true", last, ok)
	}
}

func TestDebouncerRejectedEdgeDoesNotMoveClock(t *testing.T) {
	d := NewDebouncer(200)

	d.Accept(0)
	for _, ts := range []Instant{50, 100, 150, 200} {
		if d.Accept(ts) {
			t.Fatalf("edge at %d accepted", ts)
		}
	}

	// Measured from the accepted edge at 0, not from the bounce at 200.
	if !d.Accept(250) {
		t.Fatal("edge at 250 rejected")
	}
}

func TestDebouncerFirstEdgeAtZero(t *testing.T) {
	d := NewDebouncer(200)

	if _, ok := d.Last(); ok {
		t.Fatal("fresh debouncer reports an accepted edge")
	}
	if !d.Accept(0) {
		t.Fatal("first edge at 0 rejected")
	}
}

func TestDebouncerCounterWrap(t *testing.T) {
	d := NewDebouncer(200)

	const top = ^Instant(0)
	d.Accept(top - 50)

	// 150 units later across the wrap.
	if d.Accept(99) {
		t.Fatal("edge inside window across wrap accepted")
	}
	// 301 units later across the wrap.
	if !d.Accept(250) {
		t.Fatal("edge past window across wrap rejected")
	}
}
