// Package array provides the dense complex-valued multi-dimensional arrays
// and element-wise kernels that the linear-operator core is built on.
package array

import "fmt"

// Shape holds the extent of every axis of an array.
//
// Axis 0 is the fastest-varying axis: packed strides grow with the axis
// index, so the trailing axis addresses the largest contiguous blocks. The
// gradient operator relies on this to treat each slice of its stacked
// trailing axis as one contiguous block.
type Shape []int

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates packed strides in elements, axis 0 fastest:
// stride[0] = 1, stride[i] = stride[i-1] * dim[i-1].
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[0] = 1
	for i := 1; i < len(s); i++ {
		strides[i] = strides[i-1] * s[i-1]
	}
	return strides
}
