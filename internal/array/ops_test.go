package array

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomComplex(n int, rng *rand.Rand) []complex64 {
	out := make([]complex64, n)
	for i := range out {
		out[i] = complex(float32(rng.NormFloat64()), float32(rng.NormFloat64()))
	}
	return out
}

func assertClose(t *testing.T, expected, actual complex64, tol float64, msg string) {
	t.Helper()
	d := complex128(expected - actual)
	if math.Hypot(real(d), imag(d)) > tol {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func TestFDiff1D(t *testing.T) {
	in := []complex64{1, 2, 4, 7}
	out := make([]complex64, 4)

	FDiff(Shape{4}, 0, out, in)

	// Last element has no forward neighbor.
	assert.Equal(t, []complex64{1, 2, 3, 0}, out)
}

func TestFDiff2D(t *testing.T) {
	// 3x2, axis 0 fastest: element (i, j) sits at i + 3*j.
	in := []complex64{
		1, 2, 4, // column j=0
		8, 16, 32, // column j=1
	}
	out := make([]complex64, 6)

	FDiff(Shape{3, 2}, 0, out, in)
	assert.Equal(t, []complex64{1, 2, 0, 8, 16, 0}, out)

	FDiff(Shape{3, 2}, 1, out, in)
	assert.Equal(t, []complex64{7, 14, 28, 0, 0, 0}, out)
}

func TestFDiffAxisOutOfRange(t *testing.T) {
	assert.Panics(t, func() { FDiff(Shape{4}, 1, make([]complex64, 4), make([]complex64, 4)) })
	assert.Panics(t, func() { FDiffBackward(Shape{4}, -1, make([]complex64, 4), make([]complex64, 4)) })
}

func TestFDiffBackwardIsAdjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dims := Shape{5, 4, 3}
	n := dims.NumElements()

	for axis := 0; axis < len(dims); axis++ {
		x := randomComplex(n, rng)
		y := randomComplex(n, rng)
		ax := make([]complex64, n)
		aty := make([]complex64, n)

		FDiff(dims, axis, ax, x)
		FDiffBackward(dims, axis, aty, y)

		assertClose(t, Dot(ax, y), Dot(x, aty), 1e-4, "axis adjoint identity")
	}
}

func TestAdd(t *testing.T) {
	a := []complex64{1, 2i, 3}
	b := []complex64{4, 5, 6i}
	dst := make([]complex64, 3)

	Add(dst, a, b)
	assert.Equal(t, []complex64{5, 5 + 2i, 3 + 6i}, dst)

	// Aliasing dst with an operand is supported.
	Add(a, a, b)
	assert.Equal(t, []complex64{5, 5 + 2i, 3 + 6i}, a)

	assert.Panics(t, func() { Add(dst, a, b[:2]) })
}

func TestAddLarge(t *testing.T) {
	// Exercise the parallel and unrolled paths.
	rng := rand.New(rand.NewSource(3))
	n := 3*kernelCfg.MinChunkSize + 5
	a := randomComplex(n, rng)
	b := randomComplex(n, rng)
	dst := make([]complex64, n)

	Add(dst, a, b)

	for i := range dst {
		require.Equal(t, a[i]+b[i], dst[i], "index %d", i)
	}
}

func TestClear(t *testing.T) {
	buf := []complex64{1, 2, 3}
	Clear(buf)
	assert.Equal(t, []complex64{0, 0, 0}, buf)
}

func TestDot(t *testing.T) {
	a := []complex64{1 + 1i, 2}
	b := []complex64{1 - 1i, 3i}

	// (1+i)*conj(1-i) + 2*conj(3i) = (1+i)(1+i) + 2*(-3i) = 2i - 6i = -4i
	assertClose(t, complex(0, -4), Dot(a, b), 1e-6, "dot")
	assert.Panics(t, func() { Dot(a, b[:1]) })
}

func TestRSS(t *testing.T) {
	// Shape {2, 3}: reduce over the trailing axis of extent 3.
	src := []complex64{
		3, 4i, // slice 0
		4, 0, // slice 1
		0, 3, // slice 2
	}
	dst := make([]complex64, 2)

	RSS(Shape{2, 3}, dst, src)

	assertClose(t, complex(float32(math.Sqrt(25)), 0), dst[0], 1e-5, "rss[0]")
	assertClose(t, complex(5, 0), dst[1], 1e-5, "rss[1]")
}

func TestRSSSingleSlice(t *testing.T) {
	// One slice: root-sum-of-squares degenerates to the magnitude.
	src := []complex64{3 + 4i, -2, 1i}
	dst := make([]complex64, 3)

	RSS(Shape{3, 1}, dst, src)

	assertClose(t, 5, dst[0], 1e-5, "magnitude")
	assertClose(t, 2, dst[1], 1e-5, "magnitude")
	assertClose(t, 1, dst[2], 1e-5, "magnitude")
}

func TestDetectFeatures(t *testing.T) {
	f := DetectFeatures()
	assert.NotEmpty(t, f.Architecture)
}
