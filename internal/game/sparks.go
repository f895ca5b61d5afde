package game

import "math"

type SparkKind uint8

const (
	SparkCrystal SparkKind = iota
	SparkRift
	SparkDissonance
	SparkAscension
)

func sparkColor(k SparkKind) (r, g, b float32) {
	switch k {
	case SparkCrystal:
		return 0.4, 1.0, 0.5
	case SparkRift:
		return 0.3, 0.9, 1.0
	case SparkDissonance:
		return 1.0, 0.3, 0.2
	case SparkAscension:
		return 1.0, 0.85, 0.3
	}
	return 1, 1, 1
}

// Spark lives in view-plane coordinates, the same space the body
// sprites are drawn in.
type Spark struct {
	X, Y   float64
	VX, VY float64

	Life    float64
	MaxLife float64

	Size float64
	Kind SparkKind
}

// SparkSystem is the render shell's only stateful visual: short
// additive bursts marking gameplay events. Purely cosmetic, never
// read by the simulation.
type SparkSystem struct {
	Max    int
	P      []Spark
	rand   *Rand
	ovrIdx int // circular overwrite index when full
}

func NewSparkSystem(maxSparks int, seed uint64) *SparkSystem {
	if maxSparks <= 0 {
		maxSparks = 256
	}
	return &SparkSystem{
		Max:  maxSparks,
		P:    make([]Spark, 0, maxSparks),
		rand: NewRand(splitmix64(seed ^ 0x5AA5)),
	}
}

func (ps *SparkSystem) add(p Spark) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	// Circular overwrite.
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// Burst spawns a radial shower at a view-plane position.
func (ps *SparkSystem) Burst(x, y float64, kind SparkKind, count int) {
	for i := 0; i < count; i++ {
		speed := ps.rand.RangeF(2, 14)
		ang := ps.rand.RangeF(0, 2*math.Pi)
		ps.add(Spark{
			X: x, Y: y,
			VX:      speed * math.Cos(ang),
			VY:      speed * math.Sin(ang),
			MaxLife: ps.rand.RangeF(0.4, 1.2),
			Size:    ps.rand.RangeF(2, 5),
			Kind:    kind,
		})
	}
}

func (ps *SparkSystem) Update(dt float64) {
	kept := ps.P[:0]
	for _, p := range ps.P {
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VX *= 1 - 2*dt // drag
		p.VY *= 1 - 2*dt
		kept = append(kept, p)
	}
	ps.P = kept
	ps.ovrIdx = 0
}

// RenderData appends glow sprites. Format matches the renderer's
// streaming buffer: [x, y, size, r, g, b, a, pulse] * N, with color
// pre-multiplied by alpha for additive blending.
func (ps *SparkSystem) RenderData(buf []float32) []float32 {
	for _, p := range ps.P {
		t := p.Life / p.MaxLife
		a := float32(1 - t)
		cr, cg, cb := sparkColor(p.Kind)
		buf = append(buf,
			float32(p.X), float32(p.Y), float32(p.Size*(1-t*0.5)),
			cr*a, cg*a, cb*a, a, 0,
		)
	}
	return buf
}
