// Copyright 2026 The Recon Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package linop provides linear operators on complex-valued
// multi-dimensional arrays for iterative reconstruction algorithms.
//
// A Linop bundles a forward map A with its adjoint Aᴴ and, optionally, the
// normal map AᴴA and the regularized pseudo-inverse solve (AᴴA + λI)⁻¹.
// Bundles can be cloned cheaply and chained algebraically; all operators of
// one bundle (and of every clone) share a single state blob that is
// released exactly once.
//
// Example:
//
//	g, _ := linop.Grad(array.Shape{128, 128}, array.NewAxisSet(0, 1))
//	defer g.Free()
//
//	out := make([]complex64, g.Codomain().Dims.NumElements())
//	g.Forward(out, img) // stacked partial derivatives of img
package linop

import (
	"github.com/recon-ml/recon/internal/array"
	"github.com/recon-ml/recon/internal/grad"
	"github.com/recon-ml/recon/internal/linop"
	"github.com/recon-ml/recon/internal/operator"
)

// Linop is a linear operator bundle: forward, adjoint, and optional
// normal and pseudo-inverse maps over one shared state blob.
type Linop = linop.Linop

// IOVec describes one end of an operator: dimensions plus element strides.
type IOVec = operator.IOVec

// ApplyFunc applies one map of a bundle to src, writing into dst.
type ApplyFunc = linop.ApplyFunc

// ApplyParamFunc is ApplyFunc with the pseudo-inverse regularization
// parameter λ.
type ApplyParamFunc = linop.ApplyParamFunc

// DelFunc releases the state blob once the last operator of the bundle and
// of every clone has been freed.
type DelFunc = linop.DelFunc

// Contract-violation sentinels. Misuse is validated at construction and at
// entry points, never per element.
var (
	ErrInvalidArgument = linop.ErrInvalidArgument
	ErrUnsupported     = linop.ErrUnsupported
	ErrShapeMismatch   = operator.ErrShapeMismatch
)

// New creates a linear operator with densely packed strides.
//
// odims and idims describe the codomain and domain. forward and adjoint are
// required; normal and pinverse may be nil, which fixes the bundle's
// capability set for its lifetime. del, which may be nil, releases data
// once the bundle and all clones are freed.
func New(odims, idims array.Shape, data any,
	forward, adjoint, normal ApplyFunc, pinverse ApplyParamFunc, del DelFunc) (*Linop, error) {
	return linop.New(odims, idims, data, forward, adjoint, normal, pinverse, del)
}

// New2 creates a linear operator with explicit strides.
func New2(odims array.Shape, ostrs []int, idims array.Shape, istrs []int, data any,
	forward, adjoint, normal ApplyFunc, pinverse ApplyParamFunc, del DelFunc) (*Linop, error) {
	return linop.New2(odims, ostrs, idims, istrs, data, forward, adjoint, normal, pinverse, del)
}

// Chain composes two bundles into C = B∘A (apply a, then b). The adjoint
// reverses the operand order and the normal map is derived algebraically;
// the result never carries a pseudo-inverse. If b supplies a normal
// operator it must equal bᴴb exactly.
func Chain(a, b *Linop) (*Linop, error) {
	return linop.Chain(a, b)
}

// ForwardIter adapts Forward to the untyped real-buffer convention used by
// iterative solvers: interleaved float32 pairs reinterpreted as complex64.
func ForwardIter(l *Linop, dst, src []float32) {
	linop.ForwardIter(l, dst, src)
}

// AdjointIter is ForwardIter for the adjoint map.
func AdjointIter(l *Linop, dst, src []float32) {
	linop.AdjointIter(l, dst, src)
}

// NormalIter is ForwardIter for the normal map; it panics if the bundle
// carries none.
func NormalIter(l *Linop, dst, src []float32) {
	linop.NormalIter(l, dst, src)
}

// PinverseIter is ForwardIter for the pseudo-inverse map; it panics if the
// bundle carries none.
func PinverseIter(l *Linop, lambda float32, dst, src []float32) {
	linop.PinverseIter(l, lambda, dst, src)
}

// Grad builds the discrete gradient operator over an input of shape dims,
// differentiating along the axes selected by flags. The codomain gains one
// trailing axis with one slice per selected axis, in ascending axis order.
func Grad(dims array.Shape, flags array.AxisSet) (*Linop, error) {
	return grad.NewLinop(dims, flags)
}

// GradOp computes stacked forward differences directly, outside a bundle.
// dims is the padded shape (input dims plus the stacked trailing axis).
func GradOp(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	grad.Op(dims, flags, out, in)
}

// GradAdjoint computes the adjoint of GradOp directly, outside a bundle.
func GradAdjoint(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	grad.Adjoint(dims, flags, out, in)
}

// GradMagnitude computes the root-sum-of-squares gradient magnitude map of
// in; dims is the unpadded input shape.
func GradMagnitude(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	grad.Magnitude(dims, flags, out, in)
}
