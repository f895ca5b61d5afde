package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveBankBuffersPopulated(t *testing.T) {
	b := NewWaveBank()

	for name, buf := range map[string][]float32{
		"beep":      b.Beep,
		"rift beep": b.RiftBeep,
		"click":     b.Click,
		"rotation":  b.Rotation,
		"chord":     b.Chord,
		"rift hum":  b.RiftHum,
		"lock beep": b.LockBeep,
		"dissonant": b.Dissonant,
		"ping":      b.Ping,
	} {
		require.NotEmpty(t, buf, name)
		peak := float32(0)
		for _, s := range buf {
			require.False(t, math.IsNaN(float64(s)), name)
			if a := float32(math.Abs(float64(s))); a > peak {
				peak = a
			}
		}
		assert.Greater(t, peak, float32(0), name)
		assert.LessOrEqual(t, peak, float32(1), name)
	}
}

func TestWaveBankChimesCoverAllIntervals(t *testing.T) {
	b := NewWaveBank()
	for h := Octave; h <= GoldenRatio; h++ {
		require.NotEmpty(t, b.Chimes[h], h.String())
	}
}

func TestChordSwellsFromAndToSilence(t *testing.T) {
	b := NewWaveBank()
	n := len(b.Chord)
	require.Equal(t, samples(7.0), n)

	assert.Zero(t, b.Chord[0])
	assert.InDelta(t, 0, b.Chord[n-1], 1e-3)

	mid := float32(math.Abs(float64(b.Chord[n/2])))
	edge := float32(math.Abs(float64(b.Chord[n/100])))
	assert.Greater(t, mid+0.01, edge, "envelope swells toward the middle")
}

func TestPingDecays(t *testing.T) {
	b := NewWaveBank()
	headPeak, tailPeak := float32(0), float32(0)
	half := len(b.Ping) / 2
	for i, s := range b.Ping {
		a := float32(math.Abs(float64(s)))
		if i < half && a > headPeak {
			headPeak = a
		}
		if i >= half && a > tailPeak {
			tailPeak = a
		}
	}
	assert.Greater(t, headPeak, tailPeak*4)
}

func TestAmbientForBodyMapping(t *testing.T) {
	b := NewWaveBank()

	assert.Equal(t, &b.RedGiantPulse[0], &b.AmbientFor(&Star{Class: RedGiant})[0])
	assert.Equal(t, &b.WhiteDwarfWhine[0], &b.AmbientFor(&Star{Class: WhiteDwarf})[0])
	assert.Equal(t, &b.StarDrone[0], &b.AmbientFor(&Star{Class: MainSequence})[0])

	assert.Equal(t, &b.HotJupiterRoar[0], &b.AmbientFor(&Planet{Class: HotJupiter})[0])
	assert.Equal(t, &b.OceanWorldFlow[0], &b.AmbientFor(&Planet{Class: OceanWorld})[0])
	assert.Equal(t, &b.SuperEarthTone[0], &b.AmbientFor(&Planet{Class: SuperEarth})[0])

	assert.Equal(t, &b.SupernovaChaos[0], &b.AmbientFor(&Nebula{Class: SupernovaRemnant})[0])
	assert.Equal(t, &b.EmissionDrone[0], &b.AmbientFor(&Nebula{Class: Emission})[0])
}

func TestLockBeepStepsUpward(t *testing.T) {
	b := NewWaveBank()
	half := len(b.LockBeep) / 2

	// Count zero crossings in each half; the second half's higher tone
	// crosses more often.
	crossings := func(buf []float32) int {
		n := 0
		for i := 1; i < len(buf); i++ {
			if (buf[i-1] < 0) != (buf[i] < 0) {
				n++
			}
		}
		return n
	}
	lo := crossings(b.LockBeep[:half])
	hi := crossings(b.LockBeep[half:])
	assert.Greater(t, hi, lo)
}
