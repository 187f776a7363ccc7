// Package grad implements the discrete gradient as a linear operator:
// stacked forward finite differences along a selectable set of axes, with
// the matching adjoint and normal-equations maps.
package grad

import (
	"fmt"

	"github.com/recon-ml/recon/internal/array"
	"github.com/recon-ml/recon/internal/linop"
)

// Op computes the stacked forward differences of in along every axis in
// flags. dims is the padded shape: the input shape plus one trailing axis
// whose extent equals flags.Count(). Slice i of the trailing axis receives
// the forward difference along the i-th selected axis, ascending.
func Op(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	inner := checkStacked(dims, flags)
	block := inner.NumElements()

	for i, axis := range flags.Axes() {
		array.FDiff(inner, axis, out[i*block:(i+1)*block], in)
	}
}

// Adjoint computes the adjoint of Op: the per-axis backward-difference
// adjoints of the stacked slices of in, summed into out. dims is the padded
// shape of in; out holds the unpadded shape.
func Adjoint(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	inner := checkStacked(dims, flags)
	block := inner.NumElements()

	tmp := array.MustNew(inner, array.CPU).Data()
	array.Clear(out[:block])

	for i, axis := range flags.Axes() {
		array.FDiffBackward(inner, axis, tmp, in[i*block:(i+1)*block])
		array.Add(out[:block], out[:block], tmp)
	}
}

// Magnitude computes the gradient magnitude map of in: stacked forward
// differences reduced by root-sum-of-squares over the stacked axis. dims is
// the unpadded input shape; out has the same shape.
func Magnitude(dims array.Shape, flags array.AxisSet, out, in []complex64) {
	padded := paddedDims(dims, flags)

	tmp := array.MustNew(padded, array.CPU)
	Op(padded, flags, tmp.Data(), in)
	array.RSS(padded, out, tmp.Data())
}

// checkStacked validates that the trailing axis of dims holds one slice per
// selected axis and returns the unpadded shape. A mismatch is a programming
// error in the caller: the stacked slices would not line up with the axes.
func checkStacked(dims array.Shape, flags array.AxisSet) array.Shape {
	d := len(dims)
	if d == 0 || dims[d-1] != flags.Count() {
		panic(fmt.Sprintf("grad: trailing axis of %v does not hold %d slices", dims, flags.Count()))
	}
	return dims[:d-1]
}

func paddedDims(dims array.Shape, flags array.AxisSet) array.Shape {
	return append(dims.Clone(), flags.Count())
}

// data is the private operator state; immutable after construction.
type data struct {
	dims  array.Shape // padded: input dims plus the stacked trailing axis
	flags array.AxisSet
}

func opApply(d any, dst, src []complex64) {
	g := d.(*data)
	Op(g.dims, g.flags, dst, src)
}

func opAdjoint(d any, dst, src []complex64) {
	g := d.(*data)
	Adjoint(g.dims, g.flags, dst, src)
}

func opNormal(d any, dst, src []complex64) {
	g := d.(*data)

	// This could be implemented more efficiently.
	tmp := array.MustNew(g.dims, array.CPU)
	Op(g.dims, g.flags, tmp.Data(), src)
	Adjoint(g.dims, g.flags, dst, tmp.Data())
}

// NewLinop builds the gradient operator bundle over an input of shape dims,
// differentiating along the axes in flags. The codomain gains one trailing
// axis of extent flags.Count(), one slice per selected axis in ascending
// order. No pseudo-inverse is provided.
func NewLinop(dims array.Shape, flags array.AxisSet) (*linop.Linop, error) {
	if flags == 0 {
		return nil, fmt.Errorf("%w: empty axis set", linop.ErrInvalidArgument)
	}
	if flags.Max() >= len(dims) {
		return nil, fmt.Errorf("%w: axis %d out of range for %d-d input",
			linop.ErrInvalidArgument, flags.Max(), len(dims))
	}

	padded := paddedDims(dims, flags)
	state := &data{dims: padded, flags: flags}

	// The state is garbage collected with the bundle; no deleter needed.
	return linop.New(padded, dims, state, opApply, opAdjoint, opNormal, nil, nil)
}
