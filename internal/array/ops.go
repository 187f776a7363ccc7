package array

import (
	"fmt"
	"math"

	"github.com/recon-ml/recon/internal/parallel"
)

var kernelCfg = parallel.DefaultConfig()

// Clear zeroes dst.
func Clear(dst []complex64) {
	for i := range dst {
		dst[i] = 0
	}
}

// Add writes a + b into dst element-wise. All three slices must have the
// same length; dst may alias a or b.
func Add(dst, a, b []complex64) {
	if len(a) != len(dst) || len(b) != len(dst) {
		panic(fmt.Sprintf("array: add length mismatch: dst %d, a %d, b %d", len(dst), len(a), len(b)))
	}

	parallel.ForRange(len(dst), func(start, end int) {
		if hostFeatures.wideVectors() {
			addUnrolled(dst[start:end], a[start:end], b[start:end])
			return
		}
		for i := start; i < end; i++ {
			dst[i] = a[i] + b[i]
		}
	}, kernelCfg)
}

// addUnrolled is the four-wide variant; the bounds are hoisted so the
// compiler can keep the loop body branch-free on wide-vector hardware.
func addUnrolled(dst, a, b []complex64) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		d := dst[i : i+4 : i+4]
		x := a[i : i+4 : i+4]
		y := b[i : i+4 : i+4]
		d[0] = x[0] + y[0]
		d[1] = x[1] + y[1]
		d[2] = x[2] + y[2]
		d[3] = x[3] + y[3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

// Dot returns the complex inner product sum_i a[i] * conj(b[i]).
func Dot(a, b []complex64) complex64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("array: dot length mismatch: %d vs %d", len(a), len(b)))
	}

	// Accumulate in float64: the adjoint tests compare inner products of
	// moderately large random arrays.
	var re, im float64
	for i := range a {
		ar, ai := float64(real(a[i])), float64(imag(a[i]))
		br, bi := float64(real(b[i])), float64(imag(b[i]))
		re += ar*br + ai*bi
		im += ai*br - ar*bi
	}
	return complex64(complex(re, im))
}

// FDiff computes the forward finite difference of src along axis, writing
// into dst. The forward neighbor of the last element along the axis is out
// of range; that position receives zero.
func FDiff(dims Shape, axis int, dst, src []complex64) {
	if axis < 0 || axis >= len(dims) {
		panic(fmt.Sprintf("array: fdiff axis %d out of range for %d-d shape", axis, len(dims)))
	}

	stride := dims.ComputeStrides()[axis]
	ext := dims[axis]

	parallel.ForRange(dims.NumElements(), func(start, end int) {
		for i := start; i < end; i++ {
			if (i/stride)%ext < ext-1 {
				dst[i] = src[i+stride] - src[i]
			} else {
				dst[i] = 0
			}
		}
	}, kernelCfg)
}

// FDiffBackward computes the adjoint of FDiff along axis: the negated
// backward difference, with the boundary handling that makes
// <FDiff x, y> == <x, FDiffBackward y> hold exactly. The last position
// along the axis receives only its backward neighbor, since FDiff never
// writes there.
func FDiffBackward(dims Shape, axis int, dst, src []complex64) {
	if axis < 0 || axis >= len(dims) {
		panic(fmt.Sprintf("array: fdiff axis %d out of range for %d-d shape", axis, len(dims)))
	}

	stride := dims.ComputeStrides()[axis]
	ext := dims[axis]

	parallel.ForRange(dims.NumElements(), func(start, end int) {
		for i := start; i < end; i++ {
			c := (i / stride) % ext

			var v complex64
			if c > 0 {
				v = src[i-stride]
			}
			if c < ext-1 {
				v -= src[i]
			}
			dst[i] = v
		}
	}, kernelCfg)
}

// RSS reduces src over its trailing axis with a root-sum-of-squares of the
// complex magnitudes, writing a real-valued result into dst. dims is the
// shape of src; dst holds dims[:len(dims)-1].
func RSS(dims Shape, dst, src []complex64) {
	if len(dims) == 0 {
		panic("array: rss needs at least one axis")
	}

	k := dims[len(dims)-1]
	block := dims[:len(dims)-1].NumElements()

	parallel.ForRange(block, func(start, end int) {
		for i := start; i < end; i++ {
			var s float64
			for j := 0; j < k; j++ {
				v := src[i+j*block]
				re, im := float64(real(v)), float64(imag(v))
				s += re*re + im*im
			}
			dst[i] = complex(float32(math.Sqrt(s)), 0)
		}
	}, kernelCfg)
}
