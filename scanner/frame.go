package scanner

import "math/bits"

// Frame is the state of the LED output lines, one bit per LED. Bit i set
// means LED i is lit.
type Frame uint64

// Blank is the frame with every LED off.
const Blank Frame = 0

// FrameAt returns the frame with only the LED at pos lit.
func FrameAt(pos int) Frame {
	return Frame(1) << uint(pos)
}

// Lit returns true if the LED at i is lit.
func (f Frame) Lit(i int) bool {
	return f&(1<<uint(i)) != 0
}

// Weight returns the number of lit LEDs.
func (f Frame) Weight() int {
	return bits.OnesCount64(uint64(f))
}

// Values returns the frame as n line values, 1 for lit and 0 for dark.
func (f Frame) Values(n int) []int {
	vv := make([]int, n)
	for i := range vv {
		if f.Lit(i) {
			vv[i] = 1
		}
	}
	return vv
}

// Output drives the LED lines. Show is called from the tick and the button
// handlers and must return quickly.
type Output interface {
	Show(Frame)
}

// OutputFunc adapts a function into an Output.
type OutputFunc func(Frame)

// Show calls f.
func (f OutputFunc) Show(frame Frame) { f(frame) }
