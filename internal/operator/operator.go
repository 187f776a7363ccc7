// Package operator implements the reference-counted callable primitive the
// linear-operator bundles are assembled from. An Operator pairs a function
// with its declared input and output shapes and an atomically counted
// lifetime; the release hook owns whatever state the function closes over.
package operator

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/recon-ml/recon/internal/array"
)

// ErrShapeMismatch reports that declared and actual shapes disagree.
var ErrShapeMismatch = errors.New("operator: shape mismatch")

// IOVec describes one end of an operator: dimensions plus element strides.
type IOVec struct {
	Dims array.Shape
	Strs []int
}

// NewIOVec builds a descriptor from a shape and explicit strides.
func NewIOVec(dims array.Shape, strs []int) *IOVec {
	return &IOVec{
		Dims: dims.Clone(),
		Strs: append([]int(nil), strs...),
	}
}

// ApplyFunc applies an operator to src, writing the result into dst.
type ApplyFunc func(data any, dst, src []complex64)

// ApplyParamFunc is ApplyFunc with an extra scalar regularization parameter.
type ApplyParamFunc func(data any, lambda float32, dst, src []complex64)

// DelFunc releases operator state once the last reference is dropped.
type DelFunc func(data any)

// Operator is a reference-counted callable with declared input and output
// shapes.
//
// The reference count is atomic, but callers sharing one operator across
// goroutines must still serialize Ref/Free against each other's Free: a Ref
// racing the final Free can resurrect a released operator.
type Operator struct {
	codomain *IOVec
	domain   *IOVec
	data     any
	apply    ApplyFunc
	del      DelFunc
	refs     atomic.Int32
}

// New creates an operator mapping domain to codomain with one reference.
// del may be nil when data needs no release beyond garbage collection.
func New(codomain, domain *IOVec, data any, apply ApplyFunc, del DelFunc) *Operator {
	op := &Operator{
		codomain: codomain,
		domain:   domain,
		data:     data,
		apply:    apply,
		del:      del,
	}
	op.refs.Store(1)
	return op
}

// Ref acquires an additional reference and returns the operator.
// Ref on a nil operator returns nil.
func (o *Operator) Ref() *Operator {
	if o == nil {
		return nil
	}
	o.refs.Add(1)
	return o
}

// Free drops one reference; the release hook runs when the count reaches
// zero. Free on a nil operator is a no-op.
func (o *Operator) Free() {
	if o == nil {
		return
	}
	if o.refs.Add(-1) == 0 && o.del != nil {
		o.del(o.data)
	}
}

// Apply runs the operator without shape checking.
func (o *Operator) Apply(dst, src []complex64) {
	o.apply(o.data, dst, src)
}

// ApplyChecked validates the buffer lengths against the declared shapes
// before applying.
func (o *Operator) ApplyChecked(dst, src []complex64) error {
	if len(dst) != o.codomain.Dims.NumElements() {
		return fmt.Errorf("%w: dst has %d elements, codomain %v wants %d",
			ErrShapeMismatch, len(dst), o.codomain.Dims, o.codomain.Dims.NumElements())
	}
	if len(src) != o.domain.Dims.NumElements() {
		return fmt.Errorf("%w: src has %d elements, domain %v wants %d",
			ErrShapeMismatch, len(src), o.domain.Dims, o.domain.Dims.NumElements())
	}
	o.Apply(dst, src)
	return nil
}

// Domain returns the input descriptor.
func (o *Operator) Domain() *IOVec {
	return o.domain
}

// Codomain returns the output descriptor.
func (o *Operator) Codomain() *IOVec {
	return o.codomain
}

// Data returns the operator state.
func (o *Operator) Data() any {
	return o.data
}

// ParamOperator is an Operator whose application takes a scalar
// regularization parameter; the pseudo-inverse slot of a bundle uses it.
type ParamOperator struct {
	codomain *IOVec
	domain   *IOVec
	data     any
	apply    ApplyParamFunc
	del      DelFunc
	refs     atomic.Int32
}

// NewParam creates a parametrized operator with one reference.
func NewParam(codomain, domain *IOVec, data any, apply ApplyParamFunc, del DelFunc) *ParamOperator {
	op := &ParamOperator{
		codomain: codomain,
		domain:   domain,
		data:     data,
		apply:    apply,
		del:      del,
	}
	op.refs.Store(1)
	return op
}

// Ref acquires an additional reference and returns the operator.
func (o *ParamOperator) Ref() *ParamOperator {
	if o == nil {
		return nil
	}
	o.refs.Add(1)
	return o
}

// Free drops one reference; the release hook runs at zero.
func (o *ParamOperator) Free() {
	if o == nil {
		return
	}
	if o.refs.Add(-1) == 0 && o.del != nil {
		o.del(o.data)
	}
}

// Apply runs the operator with the given regularization parameter.
func (o *ParamOperator) Apply(lambda float32, dst, src []complex64) {
	o.apply(o.data, lambda, dst, src)
}

// Domain returns the input descriptor.
func (o *ParamOperator) Domain() *IOVec {
	return o.domain
}

// Codomain returns the output descriptor.
func (o *ParamOperator) Codomain() *IOVec {
	return o.codomain
}

// Data returns the operator state.
func (o *ParamOperator) Data() any {
	return o.data
}
