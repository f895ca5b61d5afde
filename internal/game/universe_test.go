package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverseDeterministic(t *testing.T) {
	a := NewUniverse(42)
	b := NewUniverse(42)

	require.Equal(t, len(a.Stars), len(b.Stars))
	require.Equal(t, len(a.Planets), len(b.Planets))
	require.Equal(t, len(a.Nebulae), len(b.Nebulae))

	for i := range a.Stars {
		if diff := cmp.Diff(a.Stars[i], b.Stars[i]); diff != "" {
			t.Fatalf("star %d mismatch (-a +b):\n%s", i, diff)
		}
	}

	c := NewUniverse(43)
	require.NotEqual(t, a.Stars[0].Base, c.Stars[0].Base, "different seeds diverge")
}

func TestUniversePopulation(t *testing.T) {
	u := NewUniverse(7)

	require.Len(t, u.Stars, StarCount)
	require.Len(t, u.Nebulae, NebulaCount)
	require.GreaterOrEqual(t, len(u.Planets), StarCount)
	require.LessOrEqual(t, len(u.Planets), StarCount*MaxPlanets)

	for _, p := range u.Planets {
		require.NotNil(t, p.Parent)
	}
}

func TestBodiesStayInBounds(t *testing.T) {
	u := NewUniverse(99)
	u.Bodies(func(b Body) {
		pos := b.Pos(0)
		for d := 0; d < Dims; d++ {
			// Base positions wrap; wobble/orbit/drift excursions stay
			// well inside one extra wrap period.
			assert.GreaterOrEqual(t, pos[d], -UniverseHalf-15.0)
			assert.Less(t, pos[d], UniverseHalf+15.0)
		}
	})
}

func TestEnvInfluencePerAxis(t *testing.T) {
	u := &Universe{Seed: 1}
	star := &Star{BaseFreq: 400}
	star.Base[0] = 5 // close on the first axis only
	star.Base[1] = 50
	star.Base[2] = 50
	star.Base[3] = 50
	star.Base[4] = 50
	u.Stars = []*Star{star}

	env := u.EnvInfluence(Vec5{}, 0, nil)
	want := (InteractRadius - 5.0) / InteractRadius * 400.0
	assert.InDelta(t, want, env[0], 1e-9)
	for d := 1; d < Dims; d++ {
		assert.Zero(t, env[d], "distant axes contribute nothing")
	}
}

func TestEnvInfluenceSkipsLockedBody(t *testing.T) {
	u := &Universe{Seed: 1}
	star := &Star{BaseFreq: 400}
	u.Stars = []*Star{star}

	env := u.EnvInfluence(Vec5{}, 0, star)
	assert.Equal(t, Vec5{}, env)
}

func TestEnvInfluencePhiWeighting(t *testing.T) {
	u := &Universe{Seed: 1}
	star := &Star{BaseFreq: 100} // on top of the ship in every axis
	u.Stars = []*Star{star}

	env := u.EnvInfluence(Vec5{}, 0, nil)
	assert.InDelta(t, 100.0, env[0], 1e-6)
	assert.InDelta(t, 100.0*PHI, env[1], 1e-6)
	assert.InDelta(t, 100.0*PHI*PHI, env[2], 1e-6)
}

func TestNearestFindsClosest(t *testing.T) {
	u := &Universe{Seed: 1}
	far := &Star{BaseFreq: 100}
	far.Base[0] = 80
	near := &Star{BaseFreq: 200}
	near.Base[0] = 3
	u.Stars = []*Star{far, near}

	b, dist := u.Nearest(Vec5{}, 0)
	require.True(t, b == Body(near))
	assert.InDelta(t, 3.0, dist, 1e-9)
}

func TestNearestWrapsAroundSeam(t *testing.T) {
	u := &Universe{Seed: 1}
	s := &Star{BaseFreq: 100}
	s.Base[0] = -98 // 4 units from +98 across the seam
	u.Stars = []*Star{s}

	var pos Vec5
	pos[0] = 98
	_, dist := u.Nearest(pos, 0)
	assert.InDelta(t, 4.0, dist, 1e-9)
}

func TestNebulaFieldStrength(t *testing.T) {
	u := &Universe{Seed: 1}
	n := &Nebula{Class: SupernovaRemnant}
	u.Nebulae = []*Nebula{n}

	// Nebulae drift; sample the ship right on top at t=0.
	pos := n.Pos(0)
	strength := u.NebulaField(pos, 0)
	assert.InDelta(t, 0.9, strength, 1e-9)

	pos[0] += NebulaDissonanceRadius / 2
	strength = u.NebulaField(pos, 0)
	assert.InDelta(t, 0.45, strength, 1e-9)

	pos[0] += NebulaDissonanceRadius
	assert.Zero(t, u.NebulaField(pos, 0))
}

func TestSpiralPlacementWrapped(t *testing.T) {
	rnd := NewRand(1)
	for i := 0; i < 500; i++ {
		p := spiralPos(i, rnd)
		for d := 0; d < Dims; d++ {
			require.GreaterOrEqual(t, p[d], -UniverseHalf)
			require.Less(t, p[d], UniverseHalf)
		}
	}
}
