package testutil

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)

	pts := rng.UniformPoints(32, -2, 3)

	assert.Len(t, pts, 32)
	for _, p := range pts {
		for _, c := range []float64{p.X, p.Y, p.Z} {
			assert.GreaterOrEqual(t, c, -2.0)
			assert.Less(t, c, 3.0)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.UniformPoints(4, 0, 1)

	rng.Reset()
	p2 := rng.UniformPoints(4, 0, 1)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestRotation_IsProper(t *testing.T) {
	rng := NewRNG(1)
	for range 10 {
		rot := rng.Rotation()

		var rtr mat.Dense
		rtr.Mul(rot.T(), rot)
		assert.True(t, mat.EqualApprox(&rtr, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12))
		assert.InDelta(t, 1.0, mat.Det(rot), 1e-12)
	}
}

func TestMesh(t *testing.T) {
	d := NewRNG(3).Mesh(10)

	require.NoError(t, d.Validate())
	assert.Equal(t, 10, d.NumberOfPoints())
	assert.Equal(t, 8, d.NumberOfCells())
}

func TestFixtures(t *testing.T) {
	require.NoError(t, UnitSquare().Validate())
	require.NoError(t, Triangle().Validate())

	line := Polyline(5)
	require.NoError(t, line.Validate())
	assert.Len(t, line.Lines, 4)
}

func TestMaxPointDistance(t *testing.T) {
	a := []r3.Vector{{X: 0}, {X: 1}}
	b := []r3.Vector{{X: 0}, {X: 1, Y: 2}}

	assert.InDelta(t, 2.0, MaxPointDistance(a, b), 1e-12)
	assert.True(t, math.IsInf(MaxPointDistance(a, b[:1]), 1))
}
