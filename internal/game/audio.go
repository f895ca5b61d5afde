package game

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto/v2"
)

const BitDepth = 0 // 32-bit float (oto.FormatFloat32LE)

// Vibrato response to tuning quality. Depth in radians of phase
// offset, rate in Hz; both rise with resonance so a well-tuned
// dimension sounds richer and wobblier.
const (
	vibratoDepthBase = 0.25
	vibratoDepthMax  = 1.1
	vibratoRateBase  = 3.4
	vibratoRateMax   = 4.3

	intermodDepth = 0.08
)

// Default mix levels.
const (
	DefaultMasterVolume = 0.2
	DefaultBeepVolume   = 0.3
	DefaultEffectVolume = 0.2
	DefaultDriveVolume  = 0.05
)

// DriveSnapshot is the immutable per-tick view of the drive consumed
// by the audio callback. Published by pointer swap; the callback never
// sees a half-written tick.
type DriveSnapshot struct {
	Drive     Vec5
	Target    Vec5
	Resonance Vec5
	Power     Vec5
	Width     float64

	FullPower  bool    // a dimension is near full power buildup, in flight
	RiftCharge float64 // rift entry charge progress in [0,1], 0 when idle
}

type atomicFloat struct{ bits atomic.Uint64 }

func (a *atomicFloat) Store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat) Load() float64   { return math.Float64frombits(a.bits.Load()) }

// AudioEngine owns the output device, the sound pool and the mixdown
// reader. All cross-thread state lives here explicitly; subsystems get
// a pointer, never package globals.
type AudioEngine struct {
	ctx   *oto.Context
	ready chan struct{}

	// The player is created on the ready goroutine and torn down by
	// Close; the mutex covers both, and closed stops a late ready
	// signal from resurrecting a player nobody will close.
	mu     sync.Mutex
	player oto.Player
	closed bool

	Pool *SoundPool
	Bank *WaveBank

	snap atomic.Pointer[DriveSnapshot]

	masterVol atomicFloat
	driveVol  atomicFloat
	effectVol atomicFloat
	beepVol   atomicFloat

	reader *driveReader
}

func NewAudioEngine(bank *WaveBank) *AudioEngine {
	e := &AudioEngine{
		Pool: NewSoundPool(),
		Bank: bank,
	}
	e.masterVol.Store(DefaultMasterVolume)
	e.driveVol.Store(DefaultDriveVolume)
	e.effectVol.Store(DefaultEffectVolume)
	e.beepVol.Store(DefaultBeepVolume)
	e.reader = &driveReader{engine: e}
	return e
}

// Start opens the output device and begins streaming. The engine
// works without a device (pool and snapshots still function), so a
// failed Start degrades to silence rather than killing the game.
func (e *AudioEngine) Start() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	e.ctx = ctx
	e.ready = ready
	go func() {
		<-ready
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return
		}
		p := ctx.NewPlayer(e.reader)
		e.player = p
		e.mu.Unlock()
		p.Play()
	}()
	return nil
}

// Close stops playback. Safe to call before Start, and before the
// device ever became ready.
func (e *AudioEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.player != nil {
		e.player.Close()
		e.player = nil
	}
}

// Publish swaps in the tick's drive snapshot for the callback.
func (e *AudioEngine) Publish(s DriveSnapshot) {
	e.snap.Store(&s)
}

func (e *AudioEngine) Snapshot() *DriveSnapshot { return e.snap.Load() }

func clampVol(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (e *AudioEngine) SetMasterVolume(v float64) { e.masterVol.Store(clampVol(v)) }
func (e *AudioEngine) SetDriveVolume(v float64)  { e.driveVol.Store(clampVol(v)) }
func (e *AudioEngine) SetEffectVolume(v float64) { e.effectVol.Store(clampVol(v)) }
func (e *AudioEngine) SetBeepVolume(v float64)   { e.beepVol.Store(clampVol(v)) }

func (e *AudioEngine) MasterVolume() float64 { return e.masterVol.Load() }
func (e *AudioEngine) DriveVolume() float64  { return e.driveVol.Load() }
func (e *AudioEngine) EffectVolume() float64 { return e.effectVol.Load() }
func (e *AudioEngine) BeepVolume() float64   { return e.beepVol.Load() }

// driveReader synthesizes the continuous drive tone and mixes the
// pool, one oto read at a time. It runs on the player's goroutine and
// must not block or allocate after warmup.
type driveReader struct {
	engine *AudioEngine
	t      float64

	sig   [Dims][]float32
	left  []float32
	right []float32
	pairs [Dims * (Dims - 1) / 2]HarmonicPair
}

func (r *driveReader) grow(frames int) {
	if len(r.left) >= frames {
		return
	}
	for i := range r.sig {
		r.sig[i] = make([]float32, frames)
	}
	r.left = make([]float32, frames)
	r.right = make([]float32, frames)
}

func (r *driveReader) Read(p []byte) (int, error) {
	frames := len(p) / BytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	r.grow(frames)
	left := r.left[:frames]
	right := r.right[:frames]
	for i := range left {
		left[i] = 0
		right[i] = 0
	}

	e := r.engine
	snap := e.snap.Load()
	driveVol := e.driveVol.Load()
	effectVol := e.effectVol.Load()
	masterVol := e.masterVol.Load()

	if snap != nil {
		r.synthDrive(snap, frames, driveVol)

		// Fixed pan matrix: x hard left, z hard right, y centered,
		// higher dimensions cross-faded 70/30.
		for f := 0; f < frames; f++ {
			left[f] += r.sig[0][f] + r.sig[1][f]*0.5 + r.sig[3][f]*0.7 + r.sig[4][f]*0.3
			right[f] += r.sig[2][f] + r.sig[1][f]*0.5 + r.sig[3][f]*0.3 + r.sig[4][f]*0.7
		}

		// Slow golden shimmer bed under everything.
		for f := 0; f < frames; f++ {
			t := r.t + float64(f)/SampleRate
			mod := 0.5 + 0.5*math.Sin(2*math.Pi*0.1*PHI*t)
			amb := float32(0.01 * mod * math.Sin(2*math.Pi*30*PHI*t))
			left[f] += amb
			right[f] += amb
		}

		r.updateChord(snap, effectVol)

		// Rising tone while a rift entry is charging.
		if snap.RiftCharge > 0 {
			freq := 220 + 660*snap.RiftCharge
			for f := 0; f < frames; f++ {
				t := r.t + float64(f)/SampleRate
				w := float32(0.1 * effectVol * math.Sin(2*math.Pi*freq*t))
				left[f] += w
				right[f] += w
			}
		}
	}

	e.Pool.MixInto(left, right)

	// Master gain, then the ever-present Schumann carrier, then a hard
	// clip. Clipping (not wrapping) is part of the sound.
	for f := 0; f < frames; f++ {
		t := r.t + float64(f)/SampleRate
		sch := float32(SchumannAmp * math.Sin(2*math.Pi*SchumannFreq*t))
		l := left[f]*float32(masterVol) + sch
		rr := right[f]*float32(masterVol) + sch
		putStereoF32LR(p, f, clampF(float64(l), -1, 1), clampF(float64(rr), -1, 1))
	}

	r.t += float64(frames) / SampleRate
	return frames * BytesPerFrame, nil
}

// synthDrive renders the five dimension voices into r.sig.
func (r *driveReader) synthDrive(snap *DriveSnapshot, frames int, driveVol float64) {
	for i := 0; i < Dims; i++ {
		base := snap.Drive[i] / 2
		res := snap.Resonance[i]
		depth := vibratoDepthBase + (vibratoDepthMax-vibratoDepthBase)*res
		rate := vibratoRateBase + (vibratoRateMax-vibratoRateBase)*res*res
		sub := base / PHI

		sig := r.sig[i][:frames]
		for f := 0; f < frames; f++ {
			t := r.t + float64(f)/SampleRate

			// Layered LFOs at golden-ratio intervals, as phase offset.
			vib := depth * (math.Sin(2*math.Pi*rate*t) + 0.3*math.Sin(2*math.Pi*rate*PHI*t))

			s := driveVol * math.Sin(2*math.Pi*base*t+vib)
			phiPow := 1.0
			for k := 1; k <= 3; k++ {
				phiPow *= PHI
				s += driveVol * 0.25 / float64(k) * math.Sin(2*math.Pi*base*phiPow*t+vib)
			}
			s += driveVol * 0.15 * math.Sin(2*math.Pi*sub*t+vib*0.5)

			if i >= 3 {
				s *= 1 + 0.05*math.Sin(2*math.Pi*0.5*PHI*t)
			}
			sig[f] = float32(s)
		}
	}

	// Sum and difference tones between harmonically related pairs.
	n := detectHarmonicsInto(snap.Drive, r.pairs[:0])
	for _, pair := range r.pairs[:n] {
		f1 := snap.Drive[pair.DimA] / 2
		f2 := snap.Drive[pair.DimB] / 2
		sum := f1 + f2
		diff := absF(f1 - f2)
		a := r.sig[pair.DimA][:frames]
		b := r.sig[pair.DimB][:frames]
		for f := 0; f < frames; f++ {
			t := r.t + float64(f)/SampleRate
			im := float32(intermodDepth * driveVol *
				(0.5*math.Sin(2*math.Pi*sum*t) + 0.7*math.Sin(2*math.Pi*diff*t)))
			a[f] += im
			b[f] += im
		}
	}
}

// updateChord starts the long golden chord while full power holds and
// cuts it when it lapses. Runs on the audio side, so it touches pool
// storage directly.
func (r *driveReader) updateChord(snap *DriveSnapshot, effectVol float64) {
	pool := r.engine.Pool
	playing := pool.hasBuffer(r.engine.Bank.Chord)
	switch {
	case snap.FullPower && !playing:
		pool.addDirect(&SoundEffect{
			samples: r.engine.Bank.Chord,
			volume:  float32(effectVol),
		})
	case !snap.FullPower && playing:
		pool.removeBuffer(r.engine.Bank.Chord)
	}
}

// putStereoF32LR writes independent left/right samples in [-1,1].
func putStereoF32LR(buf []byte, i int, left, right float64) {
	lv := math.Float32bits(float32(left))
	rv := math.Float32bits(float32(right))
	buf[i*8] = byte(lv)
	buf[i*8+1] = byte(lv >> 8)
	buf[i*8+2] = byte(lv >> 16)
	buf[i*8+3] = byte(lv >> 24)
	buf[i*8+4] = byte(rv)
	buf[i*8+5] = byte(rv >> 8)
	buf[i*8+6] = byte(rv >> 16)
	buf[i*8+7] = byte(rv >> 24)
}
