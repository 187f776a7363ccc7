// Copyright 2026 The Recon Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package array provides dense complex-valued multi-dimensional arrays and
// the element-wise kernels the linear-operator packages are built on.
//
// Axis 0 is the fastest-varying axis: packed strides grow with the axis
// index. Operators that stack results, like the discrete gradient, append
// their stacked axis last so each slice is one contiguous block.
//
// Example:
//
//	a, _ := array.FromSlice([]complex64{1, 2, 4, 7}, array.Shape{4})
//	out := make([]complex64, 4)
//	array.FDiff(a.Shape(), 0, out, a.Data())  // [1 2 3 0]
package array

import (
	"github.com/recon-ml/recon/internal/array"
)

// Shape represents the dimensions of an array.
type Shape = array.Shape

// Device represents the memory placement of an array's buffer.
type Device = array.Device

// Supported memory placements.
const (
	CPU    Device = array.CPU
	WebGPU Device = array.WebGPU
)

// Array is a dense complex-valued multi-dimensional array.
type Array = array.Array

// AxisSet selects a subset of array axes; iteration order is ascending.
type AxisSet = array.AxisSet

// Features reports host CPU capabilities relevant to the kernels.
type Features = array.Features

// New allocates a zeroed array of the given shape on the given device.
func New(shape Shape, device Device) (*Array, error) {
	return array.New(shape, device)
}

// NewSameplace allocates a zeroed array on the same device as ref.
func NewSameplace(shape Shape, ref *Array) (*Array, error) {
	return array.NewSameplace(shape, ref)
}

// FromSlice creates a CPU array backed by a copy of data.
func FromSlice(data []complex64, shape Shape) (*Array, error) {
	return array.FromSlice(data, shape)
}

// NewAxisSet builds an AxisSet from explicit axis indices.
func NewAxisSet(axes ...int) AxisSet {
	return array.NewAxisSet(axes...)
}

// Clear zeroes dst.
func Clear(dst []complex64) {
	array.Clear(dst)
}

// Add writes a + b into dst element-wise.
func Add(dst, a, b []complex64) {
	array.Add(dst, a, b)
}

// Dot returns the complex inner product sum_i a[i] * conj(b[i]).
func Dot(a, b []complex64) complex64 {
	return array.Dot(a, b)
}

// FDiff computes the zero-padded forward finite difference of src along
// axis.
func FDiff(dims Shape, axis int, dst, src []complex64) {
	array.FDiff(dims, axis, dst, src)
}

// FDiffBackward computes the adjoint of FDiff along axis.
func FDiffBackward(dims Shape, axis int, dst, src []complex64) {
	array.FDiffBackward(dims, axis, dst, src)
}

// RSS reduces src over its trailing axis with a root-sum-of-squares of the
// complex magnitudes.
func RSS(dims Shape, dst, src []complex64) {
	array.RSS(dims, dst, src)
}

// DetectFeatures reports the available CPU features for the current
// process.
func DetectFeatures() Features {
	return array.DetectFeatures()
}
