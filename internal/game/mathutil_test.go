package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsRange(t *testing.T) {
	v := Vec5{150, -150, 100, -100, 0}.Wrap()
	assert.Equal(t, Vec5{-50, 50, -100, -100, 0}, v)
}

func TestWrapDeltaShortestPath(t *testing.T) {
	var a, b Vec5
	a[0] = 90
	b[0] = -90
	d := a.WrapDelta(b)
	assert.Equal(t, 20.0, d[0], "crossing the seam beats going the long way")
	assert.Equal(t, -20.0, b.WrapDelta(a)[0])

	a[1] = 10
	b[1] = 30
	assert.Equal(t, 20.0, a.WrapDelta(b)[1])
}

func TestSignFZero(t *testing.T) {
	require.Equal(t, 0.0, signF(0))
	require.Equal(t, 1.0, signF(0.001))
	require.Equal(t, -1.0, signF(-0.001))
}

func TestRandDeterminismAndRange(t *testing.T) {
	a := NewRand(123)
	b := NewRand(123)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.NextU64(), b.NextU64())
	}

	r := NewRand(5)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)

		g := r.RangeF(-3, 7)
		require.GreaterOrEqual(t, g, -3.0)
		require.Less(t, g, 7.0)

		require.Less(t, r.Intn(10), 10)
	}

	// Zero seed is remapped, not a fixed point.
	z := NewRand(0)
	require.NotZero(t, z.NextU64())
}
