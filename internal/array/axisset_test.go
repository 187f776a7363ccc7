package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisSet(t *testing.T) {
	s := NewAxisSet(2, 0, 5)

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []int{0, 2, 5}, s.Axes(), "axes iterate ascending")
	assert.True(t, s.Has(0))
	assert.True(t, s.Has(5))
	assert.False(t, s.Has(1))
	assert.False(t, s.Has(-1))
	assert.Equal(t, 5, s.Max())
}

func TestAxisSetEmpty(t *testing.T) {
	var s AxisSet

	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Axes())
	assert.Equal(t, -1, s.Max())
}

func TestAxisSetOutOfRange(t *testing.T) {
	assert.Panics(t, func() { NewAxisSet(64) })
	assert.Panics(t, func() { NewAxisSet(-1) })
}
