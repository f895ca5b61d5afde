package game

import "math"

// Celestial bodies are immutable after generation; positions are pure
// functions of simulation time (wobble/orbit/drift recomputed, never
// integrated, so there is no accumulation error).

type StellarClass int

const (
	MainSequence StellarClass = iota
	RedGiant
	WhiteDwarf
	BrownDwarf
)

func (c StellarClass) String() string {
	switch c {
	case MainSequence:
		return "main sequence star"
	case RedGiant:
		return "red giant"
	case WhiteDwarf:
		return "white dwarf"
	case BrownDwarf:
		return "brown dwarf"
	}
	return "star"
}

// FreqMult scales a star's rolled base frequency.
func (c StellarClass) FreqMult() float64 {
	switch c {
	case RedGiant:
		return 0.7
	case WhiteDwarf:
		return 1.8
	case BrownDwarf:
		return 0.3
	}
	return 1.0
}

type PlanetClass int

const (
	SuperEarth PlanetClass = iota
	HotJupiter
	IceGiant
	OceanWorld
	RoguePlanet
)

func (c PlanetClass) String() string {
	switch c {
	case SuperEarth:
		return "super-earth"
	case HotJupiter:
		return "hot jupiter"
	case IceGiant:
		return "ice giant"
	case OceanWorld:
		return "ocean world"
	case RoguePlanet:
		return "rogue planet"
	}
	return "planet"
}

// CrystalMult scales the crystal yield for a landed planet.
func (c PlanetClass) CrystalMult() float64 {
	switch c {
	case HotJupiter:
		return 0.5
	case OceanWorld:
		return 1.5
	case RoguePlanet:
		return 2.0
	case IceGiant:
		return 0.8
	}
	return 1.2
}

// Difficulty scales the landing resonance requirement.
func (c PlanetClass) Difficulty() float64 {
	switch c {
	case HotJupiter:
		return 1.5
	case OceanWorld:
		return 0.8
	case RoguePlanet:
		return 2.0
	case IceGiant:
		return 1.3
	}
	return 1.0
}

type NebulaClass int

const (
	Emission NebulaClass = iota
	Reflection
	Planetary
	SupernovaRemnant
)

func (c NebulaClass) String() string {
	switch c {
	case Emission:
		return "emission nebula"
	case Reflection:
		return "reflection nebula"
	case Planetary:
		return "planetary nebula"
	case SupernovaRemnant:
		return "supernova remnant"
	}
	return "nebula"
}

// Dissonance is the class's frequency-destabilizing strength.
func (c NebulaClass) Dissonance() float64 {
	switch c {
	case Reflection:
		return 0.3
	case Planetary:
		return 0.4
	case SupernovaRemnant:
		return 0.9
	}
	return 0.5
}

// FreqRange is the class's base-frequency roll range.
func (c NebulaClass) FreqRange() (lo, hi float64) {
	switch c {
	case Reflection:
		return 600, 800
	case Planetary:
		return 400, 600
	case SupernovaRemnant:
		return 100, 900
	}
	return 200, 300
}

// Body is a celestial variant: Star, Planet or Nebula.
type Body interface {
	// Pos returns the body's position at simulation time t.
	Pos(t float64) Vec5
	// Freq is the body's resonance frequency.
	Freq() float64
	// Label is the spoken description of the body.
	Label() string
}

type Star struct {
	Base     Vec5
	BaseFreq float64
	Class    StellarClass

	WobbleSpeed  float64
	WobbleRadius float64
	WobblePhase  float64
}

// Pos applies the slow planetary-gravity wobble in the first two
// dimensions.
func (s *Star) Pos(t float64) Vec5 {
	p := s.Base
	p[0] += s.WobbleRadius * math.Cos(t*s.WobbleSpeed+s.WobblePhase)
	p[1] += s.WobbleRadius * math.Sin(t*s.WobbleSpeed+s.WobblePhase)
	return p
}

func (s *Star) Freq() float64 { return s.BaseFreq }
func (s *Star) Label() string { return s.Class.String() }

type Planet struct {
	Parent   *Star
	BaseFreq float64
	Class    PlanetClass

	OrbitRadius float64
	OrbitSpeed  float64
	OrbitAngle  float64
	OrbitTilt   float64
	OrbitPhase  float64
}

// Pos orbits the parent star; higher dimensions trail the orbit at
// PHI-scaled angles.
func (p *Planet) Pos(t float64) Vec5 {
	sp := p.Parent.Pos(t)
	angle := p.OrbitAngle + t*p.OrbitSpeed
	sp[0] += p.OrbitRadius * math.Cos(angle)
	sp[1] += p.OrbitRadius * math.Sin(angle)
	sp[2] += p.OrbitRadius * p.OrbitTilt * math.Sin(angle+p.OrbitPhase)
	sp[3] += p.OrbitRadius * 0.5 * math.Cos(angle*PHI)
	sp[4] += p.OrbitRadius * 0.5 * math.Sin(angle*PHI)
	return sp
}

func (p *Planet) Freq() float64 { return p.BaseFreq }
func (p *Planet) Label() string { return p.Class.String() }

type Nebula struct {
	Base     Vec5
	BaseFreq float64
	Class    NebulaClass

	DriftSpeed float64
	DriftAngle float64
}

// Pos drifts slowly in the first two dimensions.
func (n *Nebula) Pos(t float64) Vec5 {
	p := n.Base
	p[0] += math.Sin(t*n.DriftSpeed) * 5
	p[1] += math.Cos(t*n.DriftSpeed+n.DriftAngle) * 5
	return p
}

func (n *Nebula) Freq() float64 { return n.BaseFreq }
func (n *Nebula) Label() string { return n.Class.String() }
