package linop

import (
	"fmt"
	"unsafe"
)

// complexView reinterprets a buffer of interleaved real/imaginary float32
// pairs as complex64 without copying.
func complexView(buf []float32) []complex64 {
	if len(buf)%2 != 0 {
		panic(fmt.Sprintf("linop: real buffer of odd length %d", len(buf)))
	}
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&buf[0])), len(buf)/2)
}

// ForwardIter adapts Forward to the untyped real-buffer convention used by
// iterative solvers.
func ForwardIter(l *Linop, dst, src []float32) {
	l.Forward(complexView(dst), complexView(src))
}

// AdjointIter adapts Adjoint to the untyped real-buffer convention used by
// iterative solvers.
func AdjointIter(l *Linop, dst, src []float32) {
	l.Adjoint(complexView(dst), complexView(src))
}

// NormalIter adapts Normal to the untyped real-buffer convention used by
// iterative solvers. The solver contract requires a normal operator, so an
// absent one panics instead of surfacing an error the solver cannot handle.
func NormalIter(l *Linop, dst, src []float32) {
	if l.normal == nil {
		panic("linop: normal operator required by iteration adapter")
	}
	l.normal.Apply(complexView(dst), complexView(src))
}

// PinverseIter adapts Pinverse to the untyped real-buffer convention used
// by iterative solvers.
func PinverseIter(l *Linop, lambda float32, dst, src []float32) {
	if l.pinverse == nil {
		panic("linop: pseudo-inverse operator required by iteration adapter")
	}
	l.pinverse.Apply(lambda, complexView(dst), complexView(src))
}
