package game

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Universe holds every celestial body, generated deterministically
// from a seed along a golden-angle spiral. Read-only after generation;
// body positions are derived from time, not mutated.
type Universe struct {
	Seed    uint64
	Stars   []*Star
	Planets []*Planet
	Nebulae []*Nebula

	// noise shapes the random-walk drift inside nebula dissonance
	// fields so nearby ticks destabilize coherently.
	noise opensimplex.Noise
}

func NewUniverse(seed uint64) *Universe {
	u := &Universe{
		Seed:  seed,
		noise: opensimplex.NewNormalized(int64(seed)),
	}
	u.generate()
	return u
}

// spiralPos places body i on the golden spiral: Fibonacci shell radii,
// golden-angle theta, higher dimensions derived from the spatial pair
// with a PHI relationship plus jitter.
func spiralPos(i int, rnd *Rand) Vec5 {
	theta := float64(i) * 2 * math.Pi * PHI
	r := float64(fibonacci[i%len(fibonacci)]) * ScaleFactor
	var p Vec5
	p[0] = r * math.Cos(theta)
	p[1] = r * math.Sin(theta)
	for d := 2; d < Dims; d++ {
		p[d] = p[d-2]*PHI + rnd.RangeF(-10, 10)
	}
	return p.Wrap()
}

func rollStellarClass(rnd *Rand) StellarClass {
	switch r := rnd.Float64(); {
	case r < 0.70:
		return MainSequence
	case r < 0.85:
		return RedGiant
	case r < 0.95:
		return WhiteDwarf
	}
	return BrownDwarf
}

func rollPlanetClass(rnd *Rand) PlanetClass {
	switch r := rnd.Float64(); {
	case r < 0.35:
		return SuperEarth
	case r < 0.60:
		return HotJupiter
	case r < 0.80:
		return IceGiant
	case r < 0.95:
		return OceanWorld
	}
	return RoguePlanet
}

func rollNebulaClass(rnd *Rand) NebulaClass {
	switch r := rnd.Float64(); {
	case r < 0.40:
		return Emission
	case r < 0.70:
		return Reflection
	case r < 0.90:
		return Planetary
	}
	return SupernovaRemnant
}

func (u *Universe) generate() {
	rnd := NewRand(splitmix64(u.Seed ^ 0x5EED5))

	for i := 0; i < StarCount; i++ {
		class := rollStellarClass(rnd)
		u.Stars = append(u.Stars, &Star{
			Base:         spiralPos(i, rnd),
			BaseFreq:     rnd.RangeF(FreqMin, FreqMax) * class.FreqMult(),
			Class:        class,
			WobbleSpeed:  rnd.RangeF(0.05, 0.2),
			WobbleRadius: rnd.RangeF(0.5, 2.0),
			WobblePhase:  rnd.RangeF(0, 2*math.Pi),
		})
	}

	const orbitRadius = 5.0
	for _, s := range u.Stars {
		n := 1 + rnd.Intn(MaxPlanets)
		for j := 0; j < n; j++ {
			radius := rnd.RangeF(orbitRadius*0.3, orbitRadius)
			u.Planets = append(u.Planets, &Planet{
				Parent:      s,
				BaseFreq:    rnd.RangeF(FreqMin, FreqMax),
				Class:       rollPlanetClass(rnd),
				OrbitRadius: radius,
				// Kepler-ish: closer orbits are faster.
				OrbitSpeed: rnd.RangeF(0.1, 0.5) / (radius / orbitRadius),
				OrbitAngle: rnd.RangeF(0, 2*math.Pi),
				OrbitTilt:  rnd.RangeF(-0.3, 0.3),
				OrbitPhase: rnd.RangeF(0, 2*math.Pi),
			})
		}
	}

	for i := 0; i < NebulaCount; i++ {
		class := rollNebulaClass(rnd)
		lo, hi := class.FreqRange()
		u.Nebulae = append(u.Nebulae, &Nebula{
			Base:       spiralPos(i, rnd),
			BaseFreq:   rnd.RangeF(lo, hi),
			Class:      class,
			DriftSpeed: rnd.RangeF(0.02, 0.1),
			DriftAngle: rnd.RangeF(0, 2*math.Pi),
		})
	}
}

// Bodies iterates all bodies in generation order.
func (u *Universe) Bodies(fn func(Body)) {
	for _, s := range u.Stars {
		fn(s)
	}
	for _, p := range u.Planets {
		fn(p)
	}
	for _, n := range u.Nebulae {
		fn(n)
	}
}

// EnvInfluence sums per-dimension target-frequency influence from
// bodies near the ship. Each dimension is pulled independently: a body
// within InteractRadius on axis d contributes proportionally to axis
// closeness, its frequency, and PHI^d. skip excludes a locked target
// so autopilot does not chase its own influence.
func (u *Universe) EnvInfluence(pos Vec5, t float64, skip Body) Vec5 {
	var env Vec5
	u.Bodies(func(b Body) {
		if b == skip {
			return
		}
		bp := b.Pos(t)
		phiPow := 1.0
		for d := 0; d < Dims; d++ {
			if d > 0 {
				phiPow *= PHI
			}
			dist := absF(pos[d] - bp[d])
			if dist < InteractRadius {
				env[d] += (InteractRadius - dist) / InteractRadius * b.Freq() * phiPow
			}
		}
	})
	return env
}

// Nearest returns the closest body to pos at time t and its distance.
func (u *Universe) Nearest(pos Vec5, t float64) (Body, float64) {
	var best Body
	bestDist := math.Inf(1)
	u.Bodies(func(b Body) {
		if d := pos.Dist(b.Pos(t)); d < bestDist {
			bestDist = d
			best = b
		}
	})
	return best, bestDist
}

// NebulaDissonanceRadius bounds the destabilizing field around nebulae.
const NebulaDissonanceRadius = 10.0

// NebulaField returns the dissonance strength at pos, or 0 when the
// ship is outside every nebula's field. Strength scales with class
// dissonance and proximity.
func (u *Universe) NebulaField(pos Vec5, t float64) float64 {
	strength := 0.0
	for _, n := range u.Nebulae {
		dist := pos.Dist(n.Pos(t))
		if dist < NebulaDissonanceRadius {
			s := n.Class.Dissonance() * (1 - dist/NebulaDissonanceRadius)
			if s > strength {
				strength = s
			}
		}
	}
	return strength
}

// FieldDrift samples the smooth turbulence field for dimension d,
// returning a value in [-1, 1]. Sustained exposure drifts targets
// coherently rather than as white noise.
func (u *Universe) FieldDrift(pos Vec5, t float64, d int) float64 {
	return u.noise.Eval3(pos[0]*0.1, pos[1]*0.1, t*0.5+float64(d)*17.3)*2 - 1
}
