package operator

import (
	"fmt"

	"github.com/recon-ml/recon/internal/array"
)

// chainData holds references to both operands of a composition for as long
// as the composed operator is live.
type chainData struct {
	a *Operator
	b *Operator
}

func chainApply(data any, dst, src []complex64) {
	cd := data.(*chainData)

	tmp := array.MustNew(cd.a.codomain.Dims, array.CPU)
	cd.a.Apply(tmp.Data(), src)
	cd.b.Apply(dst, tmp.Data())
}

func chainFree(data any) {
	cd := data.(*chainData)
	cd.a.Free()
	cd.b.Free()
}

// Chain composes two operators into one applying a first, then b. The new
// operator keeps references on both operands; their lifetimes are otherwise
// independent of the composition's.
func Chain(a, b *Operator) (*Operator, error) {
	if !a.codomain.Dims.Equal(b.domain.Dims) {
		return nil, fmt.Errorf("%w: cannot chain codomain %v into domain %v",
			ErrShapeMismatch, a.codomain.Dims, b.domain.Dims)
	}

	cd := &chainData{a: a.Ref(), b: b.Ref()}
	return New(b.codomain, a.domain, cd, chainApply, chainFree), nil
}
