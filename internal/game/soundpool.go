package game

import (
	"math"
	"sync/atomic"
)

// SoundEffect is one playing sound: a shared immutable sample buffer
// plus playback position, equal-power pan and volume. Effects are
// owned by the pool's audio side; the simulation refers to them only
// by handle.
type SoundEffect struct {
	samples []float32
	pos     int
	pan     float32
	volume  float32
	loop    bool
	handle  uint64
}

// Handle identifies a pool effect across the thread boundary. A
// handle whose effect has finished is simply ignored.
type Handle uint64

const (
	opAdd = iota
	opStop
	opSet
	opRetune
)

type poolCommand struct {
	op     int
	handle uint64
	effect *SoundEffect // opAdd
	buf    []float32    // opRetune
	pan    float32
	volume float32
}

// commandRing is a fixed-capacity single-producer single-consumer
// queue. The simulation tick pushes, the audio callback pops; neither
// side ever blocks or allocates. When full, pushes are dropped — a
// missed transient beat is preferable to a stalled callback.
type commandRing struct {
	buf  [PoolCommandCap]poolCommand
	head atomic.Uint64 // consumer position
	tail atomic.Uint64 // producer position
}

func (r *commandRing) push(c poolCommand) bool {
	t := r.tail.Load()
	if t-r.head.Load() >= PoolCommandCap {
		return false
	}
	r.buf[t%PoolCommandCap] = c
	r.tail.Store(t + 1)
	return true
}

func (r *commandRing) pop() (poolCommand, bool) {
	h := r.head.Load()
	if h == r.tail.Load() {
		return poolCommand{}, false
	}
	c := r.buf[h%PoolCommandCap]
	r.buf[h%PoolCommandCap] = poolCommand{}
	r.head.Store(h + 1)
	return c, true
}

// SoundPool owns every playing effect. Add/Stop/Set run on the
// simulation side; Mix and Advance run inside the audio callback.
type SoundPool struct {
	ring       commandRing
	effects    []*SoundEffect // audio side only
	nextHandle atomic.Uint64
}

func NewSoundPool() *SoundPool {
	p := &SoundPool{}
	p.effects = make([]*SoundEffect, 0, PoolEffectCap)
	p.nextHandle.Store(1)
	return p
}

// Resample stretches src by 1/pitch with linear interpolation so the
// perceived pitch scales with the multiplier.
func Resample(src []float32, pitch float64) []float32 {
	if pitch == 1.0 || len(src) == 0 {
		return src
	}
	n := int(float64(len(src)) / pitch)
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	for i := range out {
		x := float64(i) * pitch
		j := int(x)
		if j >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		frac := float32(x - float64(j))
		out[i] = src[j]*(1-frac) + src[j+1]*frac
	}
	return out
}

// Add enqueues a new effect. Pitch is applied once here, on the
// simulation side, never in the callback.
func (p *SoundPool) Add(samples []float32, pan, pitch, volume float64, loop bool) Handle {
	if len(samples) == 0 {
		return 0
	}
	h := p.nextHandle.Add(1)
	e := &SoundEffect{
		samples: Resample(samples, pitch),
		pan:     float32(clampF(pan, -1, 1)),
		volume:  float32(clampF(volume, 0, 1)),
		loop:    loop,
		handle:  h,
	}
	if !p.ring.push(poolCommand{op: opAdd, effect: e}) {
		return 0
	}
	return Handle(h)
}

// Stop removes an effect by handle. Safe on finished handles.
func (p *SoundPool) Stop(h Handle) {
	if h == 0 {
		return
	}
	p.ring.push(poolCommand{op: opStop, handle: uint64(h)})
}

// Set adjusts a live effect's pan and volume (looping lock tones and
// hums are steered this way every tick).
func (p *SoundPool) Set(h Handle, pan, volume float64) {
	if h == 0 {
		return
	}
	p.ring.push(poolCommand{
		op:     opSet,
		handle: uint64(h),
		pan:    float32(clampF(pan, -1, 1)),
		volume: float32(clampF(volume, 0, 1)),
	})
}

// Retune swaps a looping effect's buffer (pre-pitched by the caller),
// keeping its phase position modulo the new length.
func (p *SoundPool) Retune(h Handle, samples []float32) {
	if h == 0 || len(samples) == 0 {
		return
	}
	p.ring.push(poolCommand{op: opRetune, handle: uint64(h), buf: samples})
}

// drain applies pending commands. Audio side only.
func (p *SoundPool) drain() {
	for {
		c, ok := p.ring.pop()
		if !ok {
			return
		}
		switch c.op {
		case opAdd:
			if len(p.effects) < PoolEffectCap {
				p.effects = append(p.effects, c.effect)
			}
		case opStop:
			for i, e := range p.effects {
				if e.handle == c.handle {
					p.effects = append(p.effects[:i], p.effects[i+1:]...)
					break
				}
			}
		case opSet:
			for _, e := range p.effects {
				if e.handle == c.handle {
					e.pan = c.pan
					e.volume = c.volume
					break
				}
			}
		case opRetune:
			for _, e := range p.effects {
				if e.handle == c.handle {
					e.samples = c.buf
					if e.pos >= len(e.samples) {
						e.pos %= len(e.samples)
					}
					break
				}
			}
		}
	}
}

// step consumes frames from every effect, mixing into left/right when
// buffers are given. Finished one-shots are removed; loops wrap.
func (p *SoundPool) step(frames int, left, right []float32) {
	p.drain()
	for i := 0; i < len(p.effects); {
		e := p.effects[i]
		if left != nil {
			lg := float32(math.Sqrt(float64(1-e.pan)/2)) * e.volume
			rg := float32(math.Sqrt(float64(1+e.pan)/2)) * e.volume
			for f := 0; f < frames; f++ {
				idx := e.pos + f
				if idx >= len(e.samples) {
					if !e.loop {
						break
					}
					idx %= len(e.samples)
				}
				s := e.samples[idx]
				left[f] += s * lg
				right[f] += s * rg
			}
		}
		e.pos += frames
		if e.pos >= len(e.samples) {
			if e.loop {
				e.pos %= len(e.samples)
			} else {
				p.effects = append(p.effects[:i], p.effects[i+1:]...)
				continue
			}
		}
		i++
	}
}

// Advance moves playback without producing output (tick-rate pacing
// when the device is unavailable, and tests).
func (p *SoundPool) Advance(frames int) {
	p.step(frames, nil, nil)
}

// MixInto accumulates all active effects into the stereo pair.
// len(left) frames are consumed. Audio side only.
func (p *SoundPool) MixInto(left, right []float32) {
	p.step(len(left), left, right)
}

// ActiveCount reports the audio-side effect count. Audio side only;
// exposed for tests.
func (p *SoundPool) ActiveCount() int { return len(p.effects) }

func sameBuffer(a, b []float32) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

// addDirect inserts an effect from the audio side itself, bypassing
// the ring. Audio side only.
func (p *SoundPool) addDirect(e *SoundEffect) {
	if len(p.effects) < PoolEffectCap {
		e.handle = p.nextHandle.Add(1)
		p.effects = append(p.effects, e)
	}
}

// hasBuffer reports whether any active effect plays the given buffer.
// Audio side only.
func (p *SoundPool) hasBuffer(buf []float32) bool {
	for _, e := range p.effects {
		if sameBuffer(e.samples, buf) {
			return true
		}
	}
	return false
}

// removeBuffer drops every effect playing the given buffer. Audio
// side only.
func (p *SoundPool) removeBuffer(buf []float32) {
	for i := 0; i < len(p.effects); {
		if sameBuffer(p.effects[i].samples, buf) {
			p.effects = append(p.effects[:i], p.effects[i+1:]...)
			continue
		}
		i++
	}
}
