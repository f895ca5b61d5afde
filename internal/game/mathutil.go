package game

import "math"

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// signF is -1, 0 or +1. The zero case matters: at exact tuning the
// velocity must come out zero, never NaN.
func signF(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Rand is a tiny deterministic RNG (xorshift64*).
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

func (r *Rand) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float64()
}

// Vec5 is a point or velocity in the five simulation dimensions.
type Vec5 [Dims]float64

func (v Vec5) Add(o Vec5) Vec5 {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

func (v Vec5) Sub(o Vec5) Vec5 {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

func (v Vec5) Scale(s float64) Vec5 {
	for i := range v {
		v[i] *= s
	}
	return v
}

func (v Vec5) Len() float64 {
	s := 0.0
	for i := range v {
		s += v[i] * v[i]
	}
	return math.Sqrt(s)
}

// Wrap maps every coordinate into [-UniverseHalf, UniverseHalf).
func (v Vec5) Wrap() Vec5 {
	for i := range v {
		v[i] = math.Mod(v[i]+UniverseHalf, UniverseSize)
		if v[i] < 0 {
			v[i] += UniverseSize
		}
		v[i] -= UniverseHalf
	}
	return v
}

// WrapDelta is the per-axis shortest displacement from v to o on the
// toroidal universe.
func (v Vec5) WrapDelta(o Vec5) Vec5 {
	var d Vec5
	for i := range v {
		x := o[i] - v[i]
		if x > UniverseHalf {
			x -= UniverseSize
		} else if x < -UniverseHalf {
			x += UniverseSize
		}
		d[i] = x
	}
	return d
}

func (v Vec5) Dist(o Vec5) float64 {
	return v.WrapDelta(o).Len()
}
