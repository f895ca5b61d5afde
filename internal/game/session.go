package game

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Speed modes scale velocity for careful approaches.
var speedFactors = [...]float64{0.3, 0.6, 1.0}
var speedNames = [...]string{"approach", "cruise", "quantum"}

// Fine/normal/coarse drive steps cycle with the tuning step mode.
var tuneSteps = [...]float64{StepFine, StepNormal, StepCoarse}

// Crystal tuning.
const (
	crystalCountBase   = 3
	crystalCollectRes  = 0.8
	crystalCollectTime = 1.0
	perfectResPing     = 0.999
)

// Upgrade identifies a purchasable ship improvement. Costs follow the
// Fibonacci sequence; every effect is a strictly positive increment,
// so resonance width can never collapse to zero.
type Upgrade int

const (
	UpgradeWidth Upgrade = iota
	UpgradeVelocity
	UpgradeAutoTune
	UpgradeCrystals
	upgradeCount
)

func (u Upgrade) Cost() int { return fibonacci[u] }

func (u Upgrade) String() string {
	switch u {
	case UpgradeWidth:
		return "resonance width"
	case UpgradeVelocity:
		return "max velocity"
	case UpgradeAutoTune:
		return "auto-tune"
	case UpgradeCrystals:
		return "crystal growth"
	}
	return "unknown"
}

// crystal is one collectible on a landed planet.
type crystal struct {
	freq      float64
	collected bool
}

// GameSession ties the subsystems together: one Update per frame, one
// snapshot publish per update. It owns the simulation side of every
// thread boundary; the audio engine owns the other.
type GameSession struct {
	Drive    *DriveState
	Nav      NavState
	Universe *Universe
	Engine   *AudioEngine
	Bank     *WaveBank
	Events   *EventBus
	Announce *DedupAnnouncer

	Seed    uint64
	Pos     Vec5
	SimTime float64

	SelectedDim int
	SpeedMode   int
	StepMode    int

	Crystals     int
	CrystalBonus int

	Rifts      []*Rift
	riftCharge float64 // counts down from RiftChargeTime while charging
	riftBeepAt float64

	Landed        bool
	landedOn      *Planet
	landingCharge float64
	planetCrystals []crystal
	crystalHold    float64

	SingMode bool
	Pitch    *PitchDetector

	clickAt    float64
	scanAt     float64
	prevRes    Vec5
	nearBody   bool
	ambientAt  float64

	// Active harmonic bonuses keyed by interval+pair, value = expiry.
	activeHarmonics map[string]float64

	rand *Rand
}

func NewGameSession(seed uint64, engine *AudioEngine, announce Announcer) *GameSession {
	s := &GameSession{
		Drive:           NewDriveState(seed),
		Universe:        NewUniverse(seed),
		Engine:          engine,
		Bank:            engine.Bank,
		Events:          NewEventBus(),
		Announce:        NewDedupAnnouncer(announce),
		Seed:            seed,
		activeHarmonics: make(map[string]float64),
		rand:            NewRand(splitmix64(seed ^ 0xCAFE)),
	}
	s.Nav.RiftID = -1
	s.wireEvents()
	return s
}

// wireEvents routes gameplay outcomes to speech and one-shot sounds.
func (s *GameSession) wireEvents() {
	pool := s.Engine.Pool
	s.Events.Subscribe(EventCrystalCollected, func(Event) {
		pool.Add(s.Bank.LockBeep, 0, 1.0, s.Engine.EffectVolume(), false)
	})
	s.Events.Subscribe(EventDissonance, func(Event) {
		pool.Add(s.Bank.Dissonant, 0, 1.0, s.Engine.EffectVolume(), false)
		s.Announce.Announce("Dissonance detected. Retune.")
	})
	s.Events.Subscribe(EventRiftEntered, func(Event) {
		pool.Add(s.Bank.RiftBeep, 0, 0.5, s.Engine.EffectVolume(), false)
	})
	s.Events.Subscribe(EventAscension, func(Event) {
		pool.Add(s.Bank.Chord, 0, 1.0, s.Engine.EffectVolume(), false)
	})
}

// Update advances the simulation one tick and publishes the audio
// snapshot. dt is the frame delta, already clamped by the caller.
func (s *GameSession) Update(dt float64, in Actions) {
	s.SimTime += dt
	s.Announce.Tick(dt)

	s.handleInput(dt, in)

	if s.Landed {
		s.updateLanded(dt)
		s.publish()
		return
	}

	// Environment → targets → resonance → velocity.
	var skip Body
	// Locked celestial targets are excluded from their own influence.
	if s.Nav.Locked && !s.Nav.IsRift {
		skip, _ = s.Universe.Nearest(s.Nav.Target, s.SimTime)
	}
	env := s.Universe.EnvInfluence(s.Pos, s.SimTime, skip)
	s.applyNebulaDrift(dt)

	dissonant := s.Drive.Tick(dt, env)
	if dissonant {
		s.Events.Emit(Event{Type: EventDissonance})
	}

	s.Nav.Steer(s.Drive, s.Pos, s.Engine.Pool, s.Bank, s.Engine.BeepVolume())
	s.Nav.AutoRotate(s.Pos)

	// Integrate and wrap.
	factor := speedFactors[s.SpeedMode]
	s.Pos = s.Pos.Add(s.Drive.Velocity.Scale(dt * factor)).Wrap()

	s.updateRifts(dt)
	s.updateLandingCharge(dt)
	s.updateProximity(dt)
	s.updateClicks()
	s.updatePings()
	s.updateHarmonics()
	s.updateSing()

	s.publish()
}

func (s *GameSession) handleInput(dt float64, in Actions) {
	if in.SelectDim >= 0 {
		s.SelectedDim = in.SelectDim
		s.Announce.Announce(fmt.Sprintf("Dimension %d selected.", s.SelectedDim+1))
	}
	step := tuneSteps[s.StepMode]
	if in.AdjustUp {
		s.Drive.Adjust(s.SelectedDim, step)
	}
	if in.AdjustDown {
		s.Drive.Adjust(s.SelectedDim, -step)
	}
	if in.CycleStep {
		s.StepMode = (s.StepMode + 1) % len(tuneSteps)
	}
	if in.CycleSpeed {
		s.SpeedMode = (s.SpeedMode + 1) % len(speedFactors)
		s.Announce.Announce(fmt.Sprintf("Speed mode %s.", speedNames[s.SpeedMode]))
	}
	if in.RotateLeft {
		s.Nav.ViewRot -= 1.5 * dt
		s.rotationWhoosh()
	}
	if in.RotateRight {
		s.Nav.ViewRot += 1.5 * dt
		s.rotationWhoosh()
	}
	if in.ToggleSing {
		s.toggleSing()
	}
	if in.Lock {
		s.lockNearest()
	}
	if in.Unlock && s.Nav.Locked {
		s.Nav.Unlock(s.Engine.Pool)
		s.Announce.Announce("Lock released.")
	}
	if in.EnterRift {
		s.tryEnterRift()
	}
	if in.Land {
		if s.Landed {
			s.takeOff()
		} else {
			s.tryLand()
		}
	}
	if in.Ascend {
		s.tryAscend()
	}
	if in.Upgrade >= 0 && in.Upgrade < int(upgradeCount) {
		s.buyUpgrade(Upgrade(in.Upgrade))
	}
}

func (s *GameSession) rotationWhoosh() {
	// One whoosh at a time is plenty.
	s.Engine.Pool.Add(s.Bank.Rotation, 0, 1.0, s.Engine.EffectVolume()*0.5, false)
}

// applyNebulaDrift destabilizes base targets inside nebula fields.
// The drift follows a smooth noise field, so it pushes coherently
// instead of jittering.
func (s *GameSession) applyNebulaDrift(dt float64) {
	strength := s.Universe.NebulaField(s.Pos, s.SimTime)
	if strength <= 0 {
		return
	}
	drift := strength * 15.0 * dt
	for i := 0; i < Dims; i++ {
		n := s.Universe.FieldDrift(s.Pos, s.SimTime, i)
		s.Drive.BaseTarget[i] = clampF(s.Drive.BaseTarget[i]+n*drift, FreqMin, FreqMax)
	}
	s.Announce.Announce("Warning: nebula dissonance field. Frequencies unstable.")
}

func (s *GameSession) lockNearest() {
	body, dist := s.Universe.Nearest(s.Pos, s.SimTime)
	if body == nil {
		s.Announce.Announce("Nothing in range.")
		return
	}
	s.Nav.Lock(body.Pos(s.SimTime), false, -1, s.Engine.Pool, s.Bank, s.Engine.BeepVolume())
	s.Announce.Announce(fmt.Sprintf("Locked %s, distance %.1f.", body.Label(), dist))
}

// LockRift locks the autopilot onto rift index i.
func (s *GameSession) LockRift(i int) {
	if i < 0 || i >= len(s.Rifts) {
		return
	}
	r := s.Rifts[i]
	s.Nav.Lock(r.Pos, true, i, s.Engine.Pool, s.Bank, s.Engine.BeepVolume())
	s.Announce.Announce(fmt.Sprintf("Locked %s rift.", r.Kind))
}

func (s *GameSession) updateRifts(dt float64) {
	meanRes := s.Drive.MeanResonance()

	// Probabilistic spawn while riding high resonance.
	if meanRes > RiftSpawnRes && len(s.Rifts) < MaxRifts && s.rand.Float64() < RiftSpawnChance {
		r := SpawnRift(s.Pos, s.rand)
		r.Hum = s.Engine.Pool.Add(s.Bank.RiftHum, 0, 1.0, 0, true)
		s.Rifts = append(s.Rifts, r)
		s.Events.Emit(Event{Type: EventRiftOpened})

		rel := s.Pos.WrapDelta(r.Pos)
		angle := bearingOf(rel, s.Nav.ViewRot) * 180 / math.Pi
		side := "right"
		if angle < 0 {
			side = "left"
		}
		s.Announce.Announce(fmt.Sprintf("%s rift detected at %.0f degrees %s.", r.Kind, math.Abs(angle), side))
	}

	var expired []*Rift
	s.Rifts, expired = TickRifts(s.Rifts, dt, meanRes, s.Engine.Pool)
	for _, r := range expired {
		// Only the locked rift's expiry costs the lock; other rifts
		// fading leave the autopilot alone.
		if s.Nav.IsRift && s.Nav.Locked && r.Pos == s.Nav.Target {
			s.Nav.Unlock(s.Engine.Pool)
			s.Announce.Announce("Locked rift faded.")
		} else {
			s.Announce.Announce("Rift faded.")
		}
		s.Events.Emit(Event{Type: EventRiftFaded})
	}
	if s.Nav.IsRift && s.Nav.Locked {
		// Re-resolve the lock index after removals.
		s.Nav.RiftID = s.riftIndexAt(s.Nav.Target)
		if s.Nav.RiftID < 0 {
			s.Nav.Unlock(s.Engine.Pool)
		}
	}

	// Hum loudness tracks proximity and tuning; pan tracks bearing.
	for _, r := range s.Rifts {
		rel := s.Pos.WrapDelta(r.Pos)
		dist := rel.Len()
		vol := 0.0
		if dist < RiftMaxDist {
			vol = (1 - dist/RiftMaxDist) * meanRes * s.Engine.EffectVolume()
		}
		pan := PanToward(rel, s.Nav.ViewRot)
		s.Engine.Pool.Set(r.Hum, pan, vol)

		// Locked-rift locator: beeps pace up as the view centers on
		// the rift, down to 0.2 s when it sits dead ahead.
		if s.Nav.IsRift && s.Nav.Locked && r.Pos == s.Nav.Target {
			interval := 2.0 - 1.8*(1-absF(pan))
			if s.SimTime-s.riftBeepAt > interval {
				s.riftBeepAt = s.SimTime
				s.Engine.Pool.Add(s.Bank.RiftBeep, pan, 1.0, s.Engine.BeepVolume(), false)
			}
		}
	}

	s.updateRiftCharge(dt)
}

func (s *GameSession) riftIndexAt(pos Vec5) int {
	for i, r := range s.Rifts {
		if r.Pos == pos {
			return i
		}
	}
	return -1
}

func (s *GameSession) tryEnterRift() {
	if s.riftCharge > 0 || !s.Nav.Locked || !s.Nav.IsRift || s.Nav.RiftID < 0 {
		return
	}
	r := s.Rifts[s.Nav.RiftID]
	dist := s.Pos.Dist(r.Pos)
	avgRes := s.Drive.MeanResonance()
	switch {
	case dist < RiftAlignDist && avgRes > RiftEntryRes:
		s.enterRift(r)
	case dist < RiftAlignDist && avgRes > RiftEntryRes/2:
		s.riftCharge = RiftChargeTime
		s.Announce.Announce("Initiating rift charge sequence.")
	default:
		s.Announce.Announce("Approach closer or increase resonance to charge.")
	}
}

func (s *GameSession) updateRiftCharge(dt float64) {
	if s.riftCharge <= 0 {
		return
	}
	s.riftCharge -= dt
	if !s.Nav.Locked || !s.Nav.IsRift || s.Nav.RiftID < 0 {
		s.riftCharge = 0
		return
	}
	// Gentle auto-nudge toward the rift while charging.
	r := s.Rifts[s.Nav.RiftID]
	dir := s.Pos.WrapDelta(r.Pos)
	nudge := RiftNudgeRate * dt
	s.Pos[1] += signF(dir[1]) * nudge
	s.Pos[2] += signF(dir[2]) * nudge * PHI
	s.Pos = s.Pos.Wrap()

	if s.Drive.MeanResonance() < RiftEntryRes {
		s.riftCharge = 0
		s.Announce.Announce("Charge aborted. Resonance too low. Retune.")
	} else if s.riftCharge <= 0 {
		s.enterRift(r)
	}
}

// enterRift warps the ship and applies the rift's payoff.
func (s *GameSession) enterRift(r *Rift) {
	for i := 0; i < Dims; i++ {
		s.Pos[i] += s.rand.RangeF(-20, 20) * PHI
	}
	s.Pos = s.Pos.Wrap()
	s.Announce.Announce(fmt.Sprintf("Entering %s rift. Golden warp activated.", r.Kind))

	switch r.Kind {
	case RiftCrystal:
		s.Crystals++
		s.Events.Emit(Event{Type: EventCrystalCollected})
	case RiftHazard:
		for i := 0; i < Dims; i++ {
			s.Drive.Velocity[i] += s.rand.RangeF(-1, 1) * DissonanceImpulse
		}
	case RiftBoost:
		for i := 0; i < Dims; i++ {
			s.Drive.Power[i] = PowerBuildTime
		}
	}

	s.Engine.Pool.Stop(r.Hum)
	for i, cur := range s.Rifts {
		if cur == r {
			s.Rifts = append(s.Rifts[:i], s.Rifts[i+1:]...)
			break
		}
	}
	s.riftCharge = 0
	s.Nav.Unlock(s.Engine.Pool)
	s.Events.Emit(Event{Type: EventRiftEntered})
}

func (s *GameSession) tryLand() {
	body, dist := s.Universe.Nearest(s.Pos, s.SimTime)
	planet, ok := body.(*Planet)
	if !ok || dist > LandingRange {
		s.Announce.Announce("No planet in landing range.")
		return
	}
	threshold := LandingResBase * planet.Class.Difficulty() / 3.0
	if s.Drive.MeanResonance() < threshold {
		s.Announce.Announce("Resonance too low to land.")
		return
	}
	s.landedOn = planet
	s.landingCharge = LandingChargeSec
	s.Announce.Announce("Landing sequence initiated.")
}

func (s *GameSession) updateLandingCharge(dt float64) {
	if s.landingCharge <= 0 || s.landedOn == nil {
		return
	}
	s.landingCharge -= dt
	threshold := LandingResBase * s.landedOn.Class.Difficulty() / 3.0
	if s.Drive.MeanResonance() < threshold {
		s.landingCharge = 0
		s.landedOn = nil
		s.Announce.Announce("Landing aborted. Resonance lost.")
		return
	}
	if s.landingCharge <= 0 {
		s.land()
	}
}

func (s *GameSession) land() {
	s.Landed = true
	s.Nav.Unlock(s.Engine.Pool)
	s.Drive.Velocity = Vec5{}

	count := int(float64(crystalCountBase+s.CrystalBonus) * s.landedOn.Class.CrystalMult())
	if count < 1 {
		count = 1
	}
	s.planetCrystals = s.planetCrystals[:0]
	for i := 0; i < count; i++ {
		s.planetCrystals = append(s.planetCrystals, crystal{freq: s.rand.RangeF(FreqMin, FreqMax)})
	}
	s.Events.Emit(Event{Type: EventLanded})
	s.Announce.Announce(fmt.Sprintf("Landed on %s. %d crystals detected.", s.landedOn.Label(), count))
}

func (s *GameSession) takeOff() {
	if !s.Landed {
		return
	}
	s.Landed = false
	s.landedOn = nil
	s.planetCrystals = nil
	s.crystalHold = 0
	s.Events.Emit(Event{Type: EventTookOff})
	s.Announce.Announce("Taking off.")
}

// updateLanded runs crystal prospecting: tune the selected dimension
// onto a crystal's frequency and hold it.
func (s *GameSession) updateLanded(dt float64) {
	idx := -1
	for i := range s.planetCrystals {
		if !s.planetCrystals[i].collected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	c := &s.planetCrystals[idx]
	res := resonanceAt(s.Drive.Drive[s.SelectedDim], c.freq, s.Drive.Width)
	if res > crystalCollectRes {
		s.crystalHold += dt
		if s.crystalHold >= crystalCollectTime {
			c.collected = true
			s.Crystals++
			s.crystalHold = 0
			s.Events.Emit(Event{Type: EventCrystalCollected})
			remaining := 0
			for i := range s.planetCrystals {
				if !s.planetCrystals[i].collected {
					remaining++
				}
			}
			if remaining == 0 {
				s.Announce.Announce("All crystals collected. Upgrades available.")
			} else {
				s.Announce.Announce(fmt.Sprintf("Crystal collected. %d remaining.", remaining))
			}
		}
	} else {
		s.crystalHold = 0
	}
}

func (s *GameSession) buyUpgrade(u Upgrade) {
	if !s.Landed {
		s.Announce.Announce("Upgrades require landing first.")
		return
	}
	cost := u.Cost()
	if s.Crystals < cost {
		s.Announce.Announce(fmt.Sprintf("Need %d crystals for %s.", cost, u))
		return
	}
	s.Crystals -= cost
	switch u {
	case UpgradeWidth:
		s.Drive.Width += PHI * 0.5
	case UpgradeVelocity:
		s.Drive.MaxVel *= PHI
	case UpgradeAutoTune:
		for i := 0; i < Dims; i++ {
			s.Drive.Drive[i] += (s.Drive.Target[i] - s.Drive.Drive[i]) * 0.1
		}
	case UpgradeCrystals:
		s.CrystalBonus++
	}
	s.Announce.Announce(fmt.Sprintf("%s upgraded.", u))
}

// tryAscend consumes 21 crystals and rebirths the universe.
func (s *GameSession) tryAscend() {
	if s.Crystals < AscensionCost {
		s.Announce.Announce(fmt.Sprintf("Ascension requires %d crystals.", AscensionCost))
		return
	}
	s.Crystals -= AscensionCost
	s.Seed = splitmix64(s.Seed ^ 0xA5CE0D)
	s.Universe = NewUniverse(s.Seed)
	for _, r := range s.Rifts {
		s.Engine.Pool.Stop(r.Hum)
	}
	s.Rifts = nil
	s.Nav.Unlock(s.Engine.Pool)
	s.Pos = Vec5{}
	s.Events.Emit(Event{Type: EventAscension})
	s.Announce.Announce("Ascension. A new universe unfolds.")
}

// updateProximity announces entering and leaving a body's influence
// and plays its ambient timbre while close.
func (s *GameSession) updateProximity(dt float64) {
	body, dist := s.Universe.Nearest(s.Pos, s.SimTime)
	near := body != nil && dist < InteractRadius
	if near && !s.nearBody {
		rel := s.Pos.WrapDelta(body.Pos(s.SimTime))
		s.Engine.Pool.Add(s.Bank.ApproachingBeep, PanToward(rel, s.Nav.ViewRot), 1.0, s.Engine.BeepVolume(), false)
		s.Announce.Announce("Approaching celestial object. Resonance influenced.")
	} else if !near && s.nearBody {
		s.Announce.Announce("Leaving object vicinity. Base targets restored.")
	}
	s.nearBody = near
	if !near {
		return
	}
	if s.SimTime-s.ambientAt > 2.0 {
		s.ambientAt = s.SimTime
		if wf := s.Bank.AmbientFor(body); wf != nil {
			rel := s.Pos.WrapDelta(body.Pos(s.SimTime))
			vol := (1 - dist/InteractRadius) * s.Engine.EffectVolume()
			s.Engine.Pool.Add(wf, PanToward(rel, s.Nav.ViewRot), 1.0, vol, false)
		}
	}
}

// updateClicks paces the navigation click with tuning quality: near
// perfect resonance it approaches a steady 10 Hz tick.
func (s *GameSession) updateClicks() {
	interval := math.Max(0.1, 1-s.Drive.MeanResonance())
	if s.SimTime-s.clickAt >= interval {
		s.clickAt = s.SimTime
		s.Engine.Pool.Add(s.Bank.Click, 0, 1.0, s.Engine.EffectVolume(), false)
	}
}

// updatePings rings once per dimension as it crosses into perfect
// resonance.
func (s *GameSession) updatePings() {
	for i := 0; i < Dims; i++ {
		if s.Drive.Resonance[i] > perfectResPing && s.prevRes[i] <= perfectResPing {
			s.Engine.Pool.Add(s.Bank.Ping, 0, 1.0, s.Engine.EffectVolume(), false)
		}
		s.prevRes[i] = s.Drive.Resonance[i]
	}
}

// updateHarmonics scans drive pairs twice a second, chimes newly
// formed intervals, and applies interval bonuses while they hold.
func (s *GameSession) updateHarmonics() {
	if s.SimTime-s.scanAt < HarmonicScanSec {
		return
	}
	s.scanAt = s.SimTime

	pairs := DetectHarmonics(s.Drive.Drive)
	for _, p := range pairs {
		key := fmt.Sprintf("%s_d%d_d%d", p.Kind, p.DimA, p.DimB)
		if _, active := s.activeHarmonics[key]; !active {
			s.Engine.Pool.Add(s.Bank.Chimes[p.Kind], 0, 1.0, s.Engine.EffectVolume(), false)
			s.Events.Emit(Event{Type: EventHarmonicLocked, Dim: p.DimA, Aux: p.Kind.Ratio()})
			s.Announce.Announce(fmt.Sprintf("%s harmonic between dimensions %d and %d.", p.Kind, p.DimA+1, p.DimB+1))
		}
		s.activeHarmonics[key] = s.SimTime + HarmonicBonusSec

		switch p.Kind {
		case Octave:
			s.Drive.Velocity[p.DimA] *= 1.1
			s.Drive.Velocity[p.DimB] *= 1.1
		case PerfectFifth:
			s.Drive.calmDissonance(0.1)
		}
	}
	for key, expiry := range s.activeHarmonics {
		if s.SimTime > expiry {
			delete(s.activeHarmonics, key)
		}
	}
}

func (s *GameSession) toggleSing() {
	if s.SingMode {
		s.SingMode = false
		if s.Pitch != nil {
			s.Pitch.Stop()
			s.Pitch = nil
		}
		s.Announce.Announce("Sing mode off.")
		return
	}
	det, err := StartPitchDetector(context.Background())
	if err != nil {
		// Missing microphone is a normal outcome, not a crash.
		s.Announce.Announce("Microphone unavailable. Sing mode disabled.")
		return
	}
	s.Pitch = det
	s.SingMode = true
	s.Announce.Announce("Sing mode on. Hum to tune the selected dimension.")
}

// updateSing steers the selected dimension toward the voice.
func (s *GameSession) updateSing() {
	if !s.SingMode || s.Pitch == nil {
		return
	}
	f := s.Pitch.Detected()
	if f <= 0 {
		return
	}
	f = clampF(f, FreqMin, FreqMax)
	cur := s.Drive.Drive[s.SelectedDim]
	s.Drive.SetDrive(s.SelectedDim, cur+(f-cur)*0.2)
}

// publish hands the tick's drive view to the audio callback.
func (s *GameSession) publish() {
	full := false
	if !s.Landed {
		for i := 0; i < Dims; i++ {
			if s.Drive.Power[i] > PowerBuildTime-1 {
				full = true
				break
			}
		}
	}
	charge := 0.0
	if s.riftCharge > 0 {
		charge = (RiftChargeTime - s.riftCharge) / RiftChargeTime
	}
	s.Engine.Publish(DriveSnapshot{
		Drive:      s.Drive.Drive,
		Target:     s.Drive.Target,
		Resonance:  s.Drive.Resonance,
		Power:      s.Drive.Power,
		Width:      s.Drive.Width,
		FullPower:  full,
		RiftCharge: charge,
	})
}

// Render builds the tick's read-only view for the shell.
func (s *GameSession) Render() RenderSnapshot {
	snap := RenderSnapshot{
		Position:     s.Pos,
		Velocity:     s.Drive.Velocity,
		Resonance:    s.Drive.Resonance,
		Drive:        s.Drive.Drive,
		Target:       s.Drive.Target,
		ViewRotation: s.Nav.ViewRot,
		SelectedDim:  s.SelectedDim,
		Crystals:     s.Crystals,
		Landed:       s.Landed,
		MeanRes:      s.Drive.MeanResonance(),
	}
	add := func(pos Vec5, label string, kind BodyViewKind) {
		x, y := Project(pos, s.Nav.ViewRot)
		snap.Bodies = append(snap.Bodies, BodyView{Pos: pos, X: x, Y: y, Label: label, Kind: kind})
	}
	s.Universe.Bodies(func(b Body) {
		kind := ViewStar
		switch b.(type) {
		case *Planet:
			kind = ViewPlanet
		case *Nebula:
			kind = ViewNebula
		}
		add(b.Pos(s.SimTime), b.Label(), kind)
	})
	for _, r := range s.Rifts {
		add(r.Pos, r.Kind.String()+" rift", ViewRift)
	}
	return snap
}

// SavedRift is a rift row in a saved snapshot.
type SavedRift struct {
	ID        uuid.UUID
	Pos       Vec5
	Remaining float64
	Kind      RiftKind
}

// SaveState is everything needed to re-initialize a session without
// replaying history. The universe is carried as its seed.
type SaveState struct {
	Seed         uint64
	Pos          Vec5
	Drive        Vec5
	BaseTarget   Vec5
	Width        float64
	MaxVel       float64
	Crystals     int
	CrystalBonus int
	ViewRot      float64
	SimTime      float64
	Rifts        []SavedRift
}

// SessionStore persists a SaveState between runs. Implementations live
// outside the core so the simulation never learns about SQL.
type SessionStore interface {
	Load(ctx context.Context) (SaveState, bool, error)
	Save(ctx context.Context, st SaveState) error
}

func (s *GameSession) Save() SaveState {
	st := SaveState{
		Seed:         s.Seed,
		Pos:          s.Pos,
		Drive:        s.Drive.Drive,
		BaseTarget:   s.Drive.BaseTarget,
		Width:        s.Drive.Width,
		MaxVel:       s.Drive.MaxVel,
		Crystals:     s.Crystals,
		CrystalBonus: s.CrystalBonus,
		ViewRot:      s.Nav.ViewRot,
		SimTime:      s.SimTime,
	}
	for _, r := range s.Rifts {
		st.Rifts = append(st.Rifts, SavedRift{ID: r.ID, Pos: r.Pos, Remaining: r.Remaining, Kind: r.Kind})
	}
	return st
}

// RestoreSession rebuilds a session from a saved snapshot.
func RestoreSession(st SaveState, engine *AudioEngine, announce Announcer) *GameSession {
	s := NewGameSession(st.Seed, engine, announce)
	s.Pos = st.Pos
	s.Drive.Drive = st.Drive
	s.Drive.BaseTarget = st.BaseTarget
	s.Drive.Width = st.Width
	s.Drive.MaxVel = st.MaxVel
	s.Crystals = st.Crystals
	s.CrystalBonus = st.CrystalBonus
	s.Nav.ViewRot = st.ViewRot
	s.SimTime = st.SimTime
	for _, sr := range st.Rifts {
		r := &Rift{ID: sr.ID, Pos: sr.Pos, Remaining: sr.Remaining, Kind: sr.Kind}
		r.Hum = engine.Pool.Add(engine.Bank.RiftHum, 0, 1.0, 0, true)
		s.Rifts = append(s.Rifts, r)
	}
	return s
}
