// Package linop implements linear-operator bundles: a forward map packaged
// with its adjoint and, optionally, its normal-equations and regularized
// pseudo-inverse maps. All operators of one bundle share a single
// reference-counted state blob that is released exactly once, no matter how
// the bundle and its clones are freed.
package linop

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/recon-ml/recon/internal/array"
	"github.com/recon-ml/recon/internal/operator"
)

// Sentinel errors for contract violations. Validation happens at
// construction and entry points; the per-element hot paths stay unchecked.
var (
	ErrInvalidArgument = errors.New("linop: invalid argument")
	ErrUnsupported     = errors.New("linop: operation not supported")
)

// ApplyFunc applies one map of a bundle to src, writing into dst. data is
// the blob passed at construction.
type ApplyFunc func(data any, dst, src []complex64)

// ApplyParamFunc is ApplyFunc with the pseudo-inverse regularization
// parameter.
type ApplyParamFunc func(data any, lambda float32, dst, src []complex64)

// DelFunc releases the blob once the last operator of the bundle and of
// every clone has been freed.
type DelFunc func(data any)

// sharedData owns the blob on behalf of every operator slot of a bundle.
// The count starts at the number of present slots; cloning a bundle does
// not touch it, since clones share the slots themselves. The deleter runs
// exactly once, when the last slot's operator releases its reference.
type sharedData struct {
	blob any
	del  DelFunc
	refs atomic.Int32
}

func (s *sharedData) release() {
	if s.refs.Add(-1) == 0 && s.del != nil {
		s.del(s.blob)
	}
}

// slot pairs one operator's callable with the shared blob handle.
type slot struct {
	shared *sharedData
	apply  ApplyFunc
	applyP ApplyParamFunc
}

func slotApply(data any, dst, src []complex64) {
	sl := data.(*slot)
	sl.apply(sl.shared.blob, dst, src)
}

func slotApplyParam(data any, lambda float32, dst, src []complex64) {
	sl := data.(*slot)
	sl.applyP(sl.shared.blob, lambda, dst, src)
}

func slotRelease(data any) {
	data.(*slot).shared.release()
}

// Linop bundles the forward map A with its adjoint Aᴴ and, when supplied,
// the normal map AᴴA and the pseudo-inverse solve (AᴴA + λI)⁻¹.
type Linop struct {
	forward  *operator.Operator
	adjoint  *operator.Operator
	normal   *operator.Operator
	pinverse *operator.ParamOperator
}

// New2 creates a linear operator with explicit strides.
//
// odims/ostrs describe the codomain, idims/istrs the domain. forward and
// adjoint are required; normal and pinverse may be nil, fixing the bundle's
// capability set for its lifetime. del, which may be nil, releases data
// once every operator of the bundle and of all clones has been freed.
func New2(odims array.Shape, ostrs []int, idims array.Shape, istrs []int, data any,
	forward, adjoint, normal ApplyFunc, pinverse ApplyParamFunc, del DelFunc) (*Linop, error) {

	if forward == nil || adjoint == nil {
		return nil, fmt.Errorf("%w: forward and adjoint are required", ErrInvalidArgument)
	}
	if err := odims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: codomain: %v", ErrInvalidArgument, err)
	}
	if err := idims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: domain: %v", ErrInvalidArgument, err)
	}

	shared := &sharedData{blob: data, del: del}
	shared.refs.Store(2)
	if normal != nil {
		shared.refs.Add(1)
	}
	if pinverse != nil {
		shared.refs.Add(1)
	}

	codomain := operator.NewIOVec(odims, ostrs)
	domain := operator.NewIOVec(idims, istrs)

	lo := &Linop{}
	lo.forward = operator.New(codomain, domain,
		&slot{shared: shared, apply: forward}, slotApply, slotRelease)
	lo.adjoint = operator.New(domain, codomain,
		&slot{shared: shared, apply: adjoint}, slotApply, slotRelease)

	if normal != nil {
		lo.normal = operator.New(domain, domain,
			&slot{shared: shared, apply: normal}, slotApply, slotRelease)
	}
	if pinverse != nil {
		lo.pinverse = operator.NewParam(domain, codomain,
			&slot{shared: shared, applyP: pinverse}, slotApplyParam, slotRelease)
	}

	return lo, nil
}

// New creates a linear operator with densely packed strides derived from
// the shapes.
func New(odims, idims array.Shape, data any,
	forward, adjoint, normal ApplyFunc, pinverse ApplyParamFunc, del DelFunc) (*Linop, error) {

	return New2(odims, odims.ComputeStrides(), idims, idims.ComputeStrides(),
		data, forward, adjoint, normal, pinverse, del)
}

// Domain returns the descriptor of the operator's input.
func (l *Linop) Domain() *operator.IOVec {
	return l.forward.Domain()
}

// Codomain returns the descriptor of the operator's output.
func (l *Linop) Codomain() *operator.IOVec {
	return l.forward.Codomain()
}

// HasNormal reports whether the bundle carries a normal-equations operator.
func (l *Linop) HasNormal() bool {
	return l.normal != nil
}

// HasPinverse reports whether the bundle carries a pseudo-inverse operator.
func (l *Linop) HasPinverse() bool {
	return l.pinverse != nil
}

// Data returns the blob passed at construction, or nil for bundles that
// carry none (chained bundles). Escape hatch for callers that need to
// inspect operator-specific state; does not affect reference counts.
func (l *Linop) Data() any {
	if sl, ok := l.forward.Data().(*slot); ok {
		return sl.shared.blob
	}
	return nil
}

// Forward applies y = A x without shape checking.
func (l *Linop) Forward(dst, src []complex64) {
	l.forward.Apply(dst, src)
}

// Adjoint applies y = Aᴴ x without shape checking.
func (l *Linop) Adjoint(dst, src []complex64) {
	l.adjoint.Apply(dst, src)
}

// Normal applies y = AᴴA x without shape checking.
// Returns ErrUnsupported if the bundle has no normal operator.
func (l *Linop) Normal(dst, src []complex64) error {
	if l.normal == nil {
		return fmt.Errorf("%w: bundle has no normal operator", ErrUnsupported)
	}
	l.normal.Apply(dst, src)
	return nil
}

// Pinverse solves (AᴴA + λI) y = x for y.
// Returns ErrUnsupported if the bundle has no pseudo-inverse operator.
func (l *Linop) Pinverse(lambda float32, dst, src []complex64) error {
	if l.pinverse == nil {
		return fmt.Errorf("%w: bundle has no pseudo-inverse operator", ErrUnsupported)
	}
	l.pinverse.Apply(lambda, dst, src)
	return nil
}

// ForwardChecked applies y = A x after validating the caller's declared
// dimensions against the bundle's.
func (l *Linop) ForwardChecked(ddims array.Shape, dst []complex64, sdims array.Shape, src []complex64) error {
	if err := l.checkDims(ddims, l.Codomain().Dims, sdims, l.Domain().Dims); err != nil {
		return err
	}
	return l.forward.ApplyChecked(dst, src)
}

// AdjointChecked applies y = Aᴴ x after validating the caller's declared
// dimensions against the bundle's.
func (l *Linop) AdjointChecked(ddims array.Shape, dst []complex64, sdims array.Shape, src []complex64) error {
	if err := l.checkDims(ddims, l.Domain().Dims, sdims, l.Codomain().Dims); err != nil {
		return err
	}
	return l.adjoint.ApplyChecked(dst, src)
}

// NormalChecked applies y = AᴴA x after validating the caller's declared
// dimensions against the bundle's.
func (l *Linop) NormalChecked(ddims array.Shape, dst []complex64, sdims array.Shape, src []complex64) error {
	if l.normal == nil {
		return fmt.Errorf("%w: bundle has no normal operator", ErrUnsupported)
	}
	if err := l.checkDims(ddims, l.Domain().Dims, sdims, l.Domain().Dims); err != nil {
		return err
	}
	return l.normal.ApplyChecked(dst, src)
}

func (l *Linop) checkDims(ddims, wantD, sdims, wantS array.Shape) error {
	if !ddims.Equal(wantD) {
		return fmt.Errorf("%w: declared output dims %v, operator has %v",
			operator.ErrShapeMismatch, ddims, wantD)
	}
	if !sdims.Equal(wantS) {
		return fmt.Errorf("%w: declared input dims %v, operator has %v",
			operator.ErrShapeMismatch, sdims, wantS)
	}
	return nil
}

// Clone returns a new bundle referencing the same underlying operators.
// The shared blob stays live until the original and every clone have been
// freed; only then does the deleter run, once.
func (l *Linop) Clone() *Linop {
	return &Linop{
		forward:  l.forward.Ref(),
		adjoint:  l.adjoint.Ref(),
		normal:   l.normal.Ref(),
		pinverse: l.pinverse.Ref(),
	}
}

// Free releases the bundle's operators. Present operators drop one
// reference each; absent slots are skipped.
func (l *Linop) Free() {
	if l == nil {
		return
	}
	l.forward.Free()
	l.adjoint.Free()
	l.normal.Free()
	l.pinverse.Free()
}

// Chain composes two bundles into C = B∘A (apply a, then b):
//
//	C   = B A
//	Cᴴ  = Aᴴ Bᴴ
//	CᴴC = Aᴴ BᴴB A
//
// When b carries an explicit normal operator the composed normal takes the
// cheaper Aᴴ(BᴴB)A form; b's normal must then equal bᴴb exactly, or the
// composed normal silently diverges from the true normal equations. The
// chained bundle owns fresh operators and shares no state blob with the
// operands; it never carries a pseudo-inverse.
func Chain(a, b *Linop) (*Linop, error) {
	forward, err := operator.Chain(a.forward, b.forward)
	if err != nil {
		return nil, err
	}

	adjoint, err := operator.Chain(b.adjoint, a.adjoint)
	if err != nil {
		forward.Free()
		return nil, err
	}

	var normal *operator.Operator
	if b.normal == nil {
		normal, err = operator.Chain(forward, adjoint)
	} else {
		var top *operator.Operator
		top, err = operator.Chain(b.normal, a.adjoint)
		if err == nil {
			normal, err = operator.Chain(a.forward, top)
			top.Free()
		}
	}
	if err != nil {
		forward.Free()
		adjoint.Free()
		return nil, err
	}

	return &Linop{forward: forward, adjoint: adjoint, normal: normal}, nil
}
