package array

import "math/bits"

// AxisSet selects a subset of array axes. Every operation that walks the
// set visits axes in ascending order.
type AxisSet uint64

// NewAxisSet builds an AxisSet from explicit axis indices.
// Panics if an axis is negative or beyond 63.
func NewAxisSet(axes ...int) AxisSet {
	var s AxisSet
	for _, axis := range axes {
		if axis < 0 || axis > 63 {
			panic("array: axis out of range for AxisSet")
		}
		s |= 1 << axis
	}
	return s
}

// Count returns the number of selected axes.
func (s AxisSet) Count() int {
	return bits.OnesCount64(uint64(s))
}

// Has reports whether axis is selected.
func (s AxisSet) Has(axis int) bool {
	return axis >= 0 && axis <= 63 && s&(1<<axis) != 0
}

// Axes returns the selected axes in ascending order.
func (s AxisSet) Axes() []int {
	out := make([]int, 0, s.Count())
	for r := uint64(s); r != 0; {
		lsb := bits.TrailingZeros64(r)
		out = append(out, lsb)
		r &= r - 1
	}
	return out
}

// Max returns the highest selected axis, or -1 for the empty set.
func (s AxisSet) Max() int {
	if s == 0 {
		return -1
	}
	return 63 - bits.LeadingZeros64(uint64(s))
}
