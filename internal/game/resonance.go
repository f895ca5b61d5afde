package game

// DriveState is the resonance drive of one ship: per-dimension drive
// and target frequencies plus the derived resonance, power and
// velocity. Mutated once per simulation tick, read by the audio
// engine through snapshots only.
type DriveState struct {
	Drive      Vec5 // player/autopilot controlled, clamped to [FreqMin, FreqMax]
	Target     Vec5 // base target plus environmental influence
	BaseTarget Vec5
	Resonance  Vec5 // (0,1] per dimension
	Power      Vec5 // seconds sustained above PowerThreshold
	Velocity   Vec5

	Width  float64 // resonance width in Hz, strictly positive
	MaxVel float64

	dissonanceFor float64
	rand          *Rand
}

func NewDriveState(seed uint64) *DriveState {
	d := &DriveState{
		Width:  BaseResonanceWidth,
		MaxVel: BaseMaxVelocity,
		rand:   NewRand(splitmix64(seed ^ 0xD1550)),
	}
	for i := 0; i < Dims; i++ {
		d.Drive[i] = 440
		d.BaseTarget[i] = 440
		d.Target[i] = 440
	}
	return d
}

// resonanceAt is the Lorentzian tuning curve: 1 at perfect tuning,
// decaying symmetrically with detune measured in widths. Every
// tuning check in the game (velocity, crystals, landing, rift entry)
// goes through this exact form.
func resonanceAt(drive, target, width float64) float64 {
	d := (drive - target) / width
	return 1 / (1 + d*d)
}

// Tick advances the drive one simulation step. env is the summed
// environmental frequency influence per dimension. It reports whether
// sustained dissonance fired a turbulence impulse this tick.
func (d *DriveState) Tick(dt float64, env Vec5) bool {
	for i := 0; i < Dims; i++ {
		d.Target[i] = clampF(d.BaseTarget[i]+env[i], FreqMin, FreqMax)
		d.Resonance[i] = resonanceAt(d.Drive[i], d.Target[i], d.Width)

		if d.Resonance[i] > PowerThreshold {
			d.Power[i] += dt
		} else {
			d.Power[i] = 0
		}

		boost := 1 + (d.Power[i]/PowerBuildTime)*PHI
		d.Velocity[i] = d.MaxVel * d.Resonance[i] * signF(d.Drive[i]-d.Target[i]) * boost
	}

	if d.MeanResonance() < DissonanceLevel {
		d.dissonanceFor += dt
		if d.dissonanceFor > DissonanceTime {
			for i := 0; i < Dims; i++ {
				d.Velocity[i] += d.rand.RangeF(-1, 1) * DissonanceImpulse
			}
			d.dissonanceFor = 0
			return true
		}
	} else {
		d.dissonanceFor = 0
	}
	return false
}

// calmDissonance winds back the sustained-dissonance timer. A perfect
// fifth between two drive dimensions does this while held.
func (d *DriveState) calmDissonance(x float64) {
	d.dissonanceFor -= x
	if d.dissonanceFor < 0 {
		d.dissonanceFor = 0
	}
}

func (d *DriveState) MeanResonance() float64 {
	s := 0.0
	for i := 0; i < Dims; i++ {
		s += d.Resonance[i]
	}
	return s / Dims
}

// Adjust nudges one dimension's drive frequency, clamping silently.
func (d *DriveState) Adjust(dim int, delta float64) {
	if dim < 0 || dim >= Dims {
		return
	}
	d.Drive[dim] = clampF(d.Drive[dim]+delta, FreqMin, FreqMax)
}

// SetDrive sets one dimension's drive frequency directly (sing-to-tune,
// autopilot snap), clamping silently.
func (d *DriveState) SetDrive(dim int, f float64) {
	if dim < 0 || dim >= Dims {
		return
	}
	d.Drive[dim] = clampF(f, FreqMin, FreqMax)
}
