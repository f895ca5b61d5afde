package game

import "math"

// Precomputed mono sample buffers for every transient and looping
// effect. Buffers are immutable after NewWaveBank; many live
// SoundEffects may reference the same buffer concurrently.

// lcg is a tiny deterministic noise source for waveform generation.
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64((*seed>>33)&0xFFFFFF)/float64(0xFFFFFF)*2 - 1
}

// halfSinEnv is sin^2 swell over the whole buffer (smooth in and out).
func halfSinEnv(i, n int) float64 {
	s := math.Sin(math.Pi * float64(i) / float64(n))
	return s * s
}

func samples(seconds float64) int {
	return int(seconds * SampleRate)
}

// sine fills a buffer with amp*sin(2πf t), additively.
func addSine(buf []float32, freq, amp float64) {
	for i := range buf {
		t := float64(i) / SampleRate
		buf[i] += float32(amp * math.Sin(2*math.Pi*freq*t))
	}
}

type WaveBank struct {
	Beep            []float32 // planet lock pulse, 440 Hz
	RiftBeep        []float32 // rift lock pulse, an octave up
	Click           []float32 // proximity click
	Rotation        []float32 // view rotation whoosh
	Chord           []float32 // long golden chord for full power
	RiftHum         []float32 // looping portal ambience
	LockBeep        []float32 // crystal collection, mid-to-high
	ApproachingBeep []float32
	Dissonant       []float32 // nebula rumble
	Ping            []float32 // perfect resonance ping

	Chimes [9][]float32 // indexed by Harmonic

	// Ambient timbres keyed by body subtype.
	RedGiantPulse    []float32
	WhiteDwarfWhine  []float32
	BrownDwarfRumble []float32
	StarDrone        []float32

	EmissionDrone     []float32
	ReflectionShimmer []float32
	PlanetaryLayers   []float32
	SupernovaChaos    []float32

	HotJupiterRoar  []float32
	SuperEarthTone  []float32
	OceanWorldFlow  []float32
	RogueRumble     []float32
	IceGiantChime   []float32
}

func NewWaveBank() *WaveBank {
	b := &WaveBank{}

	b.Beep = make([]float32, samples(0.1))
	addSine(b.Beep, 440, 0.2)
	b.RiftBeep = make([]float32, samples(0.1))
	addSine(b.RiftBeep, 880, 0.2)

	b.Click = make([]float32, samples(0.05))
	addSine(b.Click, 100*PHI, 0.2)

	b.Rotation = make([]float32, samples(0.3))
	addSine(b.Rotation, 200*PHI, 0.1)

	b.Chord = genChord()
	b.RiftHum = genRiftHum()
	b.LockBeep = genLockBeep()

	b.ApproachingBeep = make([]float32, samples(0.15))
	addSine(b.ApproachingBeep, 600, 0.2)

	b.Dissonant = genDissonant()
	b.Ping = genPing()

	b.Chimes[Octave] = genChime(523.25, []partial{{1046.5, 0.5}})
	b.Chimes[PerfectFifth] = genChime(523.25, []partial{{783.99, 0.7}})
	b.Chimes[PerfectFourth] = genChime(523.25, []partial{{698.46, 0.7}})
	b.Chimes[MajorThird] = genChime(523.25, []partial{{659.25, 0.7}})
	b.Chimes[MinorThird] = genChime(523.25, []partial{{622.25, 0.7}})
	b.Chimes[MajorSixth] = genChime(523.25, []partial{{880, 0.6}})
	b.Chimes[MinorSixth] = genChime(523.25, []partial{{830.6, 0.6}})
	b.Chimes[Tritone] = genChime(523.25, []partial{{739.99, 0.8}, {261.63, 0.1}})
	b.Chimes[GoldenRatio] = genChime(432, []partial{{432 * PHI, 0.6}, {432 * PHI * PHI, 0.3}})

	b.RedGiantPulse = genRedGiantPulse()
	b.WhiteDwarfWhine = make([]float32, samples(1.0))
	addSine(b.WhiteDwarfWhine, 1350, 0.08)
	b.BrownDwarfRumble = make([]float32, samples(1.5))
	addSine(b.BrownDwarfRumble, 25, 0.05)
	b.StarDrone = make([]float32, samples(1.0))
	addSine(b.StarDrone, 300, 0.06)
	addSine(b.StarDrone, 300*PHI, 0.02)

	b.EmissionDrone = make([]float32, samples(1.5))
	addSine(b.EmissionDrone, 250, 0.08)
	addSine(b.EmissionDrone, 375, 0.024)

	b.ReflectionShimmer = genReflectionShimmer()
	b.PlanetaryLayers = make([]float32, samples(1.5))
	addSine(b.PlanetaryLayers, 500, 0.07)
	addSine(b.PlanetaryLayers, 625, 0.035)
	addSine(b.PlanetaryLayers, 750, 0.021)

	b.SupernovaChaos = genSupernovaChaos()
	b.HotJupiterRoar = genHotJupiterRoar()

	b.SuperEarthTone = make([]float32, samples(1.0))
	addSine(b.SuperEarthTone, 350, 0.07)
	addSine(b.SuperEarthTone, 700, 0.021)

	b.OceanWorldFlow = genOceanWorldFlow()

	b.RogueRumble = make([]float32, samples(1.0))
	addSine(b.RogueRumble, 50, 0.03)

	b.IceGiantChime = genIceGiantChime()

	return b
}

type partial struct {
	freq float64
	amp  float64
}

// genChime is a struck two-or-three tone bell with 150 ms decay.
func genChime(base float64, partials []partial) []float32 {
	buf := make([]float32, samples(0.4))
	for i := range buf {
		t := float64(i) / SampleRate
		decay := math.Exp(-t / 0.15)
		s := math.Sin(2 * math.Pi * base * t)
		for _, p := range partials {
			s += p.amp * math.Sin(2*math.Pi*p.freq*t)
		}
		buf[i] = float32(0.15 * decay * s)
	}
	return buf
}

// genChord is the 7-second 432 Hz swell played at full power buildup.
func genChord() []float32 {
	const dur = 7.0
	buf := make([]float32, samples(dur))
	for i := range buf {
		t := float64(i) / SampleRate
		swell := math.Sin(math.Pi * t / dur)
		env := swell * swell * (0.85 + 0.15*math.Sin(2*math.Pi*t/dur*PHI))
		s := math.Sin(2*math.Pi*432*t) +
			math.Sin(2*math.Pi*432*1.25*t) +
			0.9*math.Sin(2*math.Pi*432*1.5874*t) +
			0.4*math.Sin(2*math.Pi*432*PHI*t) +
			0.2*math.Sin(2*math.Pi*432*PHI*PHI*t)
		buf[i] = float32(0.11 * env * s)
	}
	return buf
}

func genRiftHum() []float32 {
	buf := make([]float32, samples(1.0))
	addSine(buf, 220, 0.1)
	addSine(buf, 220*PHI, 0.05)
	addSine(buf, 220*PHI*PHI, 0.025)
	return buf
}

// genLockBeep steps from a mid tone to a high tone.
func genLockBeep() []float32 {
	buf := make([]float32, samples(0.3))
	half := len(buf) / 2
	for i := range buf {
		t := float64(i%half) / SampleRate
		f := 600.0
		if i >= half {
			f = 1000.0
		}
		buf[i] = float32(0.2 * math.Sin(2*math.Pi*f*t))
	}
	return buf
}

func genDissonant() []float32 {
	buf := make([]float32, samples(1.0))
	seed := uint64(0x41)
	for i := range buf {
		t := float64(i) / SampleRate
		buf[i] = float32(0.1 * (math.Sin(2*math.Pi*40*t) + lcg(&seed)*0.25))
	}
	return buf
}

func genPing() []float32 {
	buf := make([]float32, samples(0.2))
	for i := range buf {
		t := float64(i) / SampleRate
		buf[i] = float32(0.2 * math.Sin(2*math.Pi*1200*t) * math.Exp(-t/0.05))
	}
	return buf
}

func genRedGiantPulse() []float32 {
	buf := make([]float32, samples(2.0))
	for i := range buf {
		t := float64(i) / SampleRate
		buf[i] = float32(0.1 * halfSinEnv(i, len(buf)) * math.Sin(2*math.Pi*40*t))
	}
	return buf
}

func genReflectionShimmer() []float32 {
	buf := make([]float32, samples(1.5))
	for i := range buf {
		t := float64(i) / SampleRate
		trem := 0.8 + 0.2*math.Sin(2*math.Pi*4*t)
		s := math.Sin(2*math.Pi*700*t) + 0.4*math.Sin(2*math.Pi*700*PHI*t)
		buf[i] = float32(0.06 * trem * s)
	}
	return buf
}

func genSupernovaChaos() []float32 {
	buf := make([]float32, samples(1.5))
	seed := uint64(0x5A)
	for i := range buf {
		t := float64(i) / SampleRate
		sweep := 200 + 700*math.Sin(2*math.Pi*0.5*t)
		buf[i] = float32(0.1 * (math.Sin(2*math.Pi*sweep*t) + lcg(&seed)*0.3))
	}
	return buf
}

func genHotJupiterRoar() []float32 {
	buf := make([]float32, samples(1.0))
	seed := uint64(0x47)
	for i := range buf {
		t := float64(i) / SampleRate
		mod := 300 + 200*math.Sin(2*math.Pi*3*t)
		buf[i] = float32(0.09 * (math.Sin(2*math.Pi*mod*t) + lcg(&seed)*0.4))
	}
	return buf
}

func genOceanWorldFlow() []float32 {
	buf := make([]float32, samples(1.0))
	for i := range buf {
		t := float64(i) / SampleRate
		flow := 0.9 + 0.1*math.Sin(2*math.Pi*2*t)
		s := math.Sin(2*math.Pi*275*t) + 0.5*math.Sin(2*math.Pi*275*1.3*t)
		buf[i] = float32(0.06 * flow * s)
	}
	return buf
}

func genIceGiantChime() []float32 {
	buf := make([]float32, samples(1.0))
	for i := range buf {
		t := float64(i) / SampleRate
		decay := math.Exp(-t / 0.2)
		s := math.Sin(2*math.Pi*800*t) +
			0.4*math.Sin(2*math.Pi*1200*t) +
			0.2*math.Sin(2*math.Pi*1600*t)
		buf[i] = float32(0.06 * decay * s)
	}
	return buf
}

// AmbientFor maps a body to its proximity ambience buffer.
func (b *WaveBank) AmbientFor(body Body) []float32 {
	switch v := body.(type) {
	case *Star:
		switch v.Class {
		case RedGiant:
			return b.RedGiantPulse
		case WhiteDwarf:
			return b.WhiteDwarfWhine
		case BrownDwarf:
			return b.BrownDwarfRumble
		}
		return b.StarDrone
	case *Planet:
		switch v.Class {
		case HotJupiter:
			return b.HotJupiterRoar
		case OceanWorld:
			return b.OceanWorldFlow
		case RoguePlanet:
			return b.RogueRumble
		case IceGiant:
			return b.IceGiantChime
		}
		return b.SuperEarthTone
	case *Nebula:
		switch v.Class {
		case Reflection:
			return b.ReflectionShimmer
		case Planetary:
			return b.PlanetaryLayers
		case SupernovaRemnant:
			return b.SupernovaChaos
		}
		return b.EmissionDrone
	}
	return nil
}
