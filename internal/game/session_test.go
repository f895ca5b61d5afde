package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession builds a session against an engine that never opens
// an output device. The pool and snapshots work the same either way.
func newTestSession(t *testing.T, seed uint64) (*GameSession, *[]string) {
	t.Helper()
	var spoken []string
	engine := NewAudioEngine(NewWaveBank())
	s := NewGameSession(seed, engine, AnnouncerFunc(func(msg string) {
		spoken = append(spoken, msg)
	}))
	return s, &spoken
}

func TestSessionUpdatePublishesSnapshot(t *testing.T) {
	s, _ := newTestSession(t, 1)
	require.Nil(t, s.Engine.Snapshot())

	s.Update(0.1, NoActions())
	snap := s.Engine.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, s.Drive.Drive, snap.Drive)
	assert.Equal(t, s.Drive.Resonance, snap.Resonance)
}

func TestSelectAndTune(t *testing.T) {
	s, _ := newTestSession(t, 1)

	in := NoActions()
	in.SelectDim = 2
	in.AdjustUp = true
	s.Update(0.1, in)

	require.Equal(t, 2, s.SelectedDim)
	assert.InDelta(t, 440.0+StepFine, s.Drive.Drive[2], 1e-9)

	in = NoActions()
	in.CycleStep = true
	s.Update(0.1, in)
	in = NoActions()
	in.AdjustDown = true
	s.Update(0.1, in)
	assert.InDelta(t, 440.0+StepFine-StepNormal, s.Drive.Drive[2], 1e-9)
}

func TestSpeedModesScaleTravel(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.SpeedMode = 2 // quantum
	s.Drive.Drive[0] = 460
	s.Update(1.0, NoActions())

	// Position integrates the tick's velocity scaled by the mode.
	require.NotZero(t, s.Drive.Velocity[0])
	assert.InDelta(t, s.Drive.Velocity[0]*speedFactors[2], s.Pos[0], 1e-9)

	s2, _ := newTestSession(t, 1)
	s2.SpeedMode = 0 // approach
	s2.Drive.Drive[0] = 460
	s2.Update(1.0, NoActions())
	assert.InDelta(t, s.Pos[0]*speedFactors[0]/speedFactors[2], s2.Pos[0], 1e-9)
}

func TestCrystalProspecting(t *testing.T) {
	s, _ := newTestSession(t, 1)

	// Force a landed state with one known crystal.
	s.Landed = true
	s.landedOn = &Planet{Class: SuperEarth, Parent: &Star{}}
	s.planetCrystals = []crystal{{freq: 500}}
	s.SelectedDim = 0
	s.Drive.Drive[0] = 500
	s.Drive.Width = BaseResonanceWidth

	for i := 0; i < 11; i++ {
		s.Update(0.1, NoActions())
	}
	require.Equal(t, 1, s.Crystals)
	require.True(t, s.planetCrystals[0].collected)
}

func TestCrystalHoldResetsOnDetune(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Landed = true
	s.landedOn = &Planet{Class: SuperEarth, Parent: &Star{}}
	s.planetCrystals = []crystal{{freq: 500}}
	s.Drive.Drive[0] = 500

	s.Update(0.5, NoActions())
	require.Positive(t, s.crystalHold)

	s.Drive.Drive[0] = 700 // lose the lock
	s.Update(0.1, NoActions())
	require.Zero(t, s.crystalHold)
	require.Zero(t, s.Crystals)
}

func TestUpgradesSpendFibonacciCosts(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Landed = true
	s.landedOn = &Planet{Class: SuperEarth, Parent: &Star{}}
	s.Crystals = 10

	w := s.Drive.Width
	s.buyUpgrade(UpgradeWidth)
	require.Equal(t, 10-fibonacci[UpgradeWidth], s.Crystals)
	assert.InDelta(t, w+PHI*0.5, s.Drive.Width, 1e-9)

	v := s.Drive.MaxVel
	s.buyUpgrade(UpgradeVelocity)
	assert.InDelta(t, v*PHI, s.Drive.MaxVel, 1e-9)

	s.buyUpgrade(UpgradeCrystals)
	require.Equal(t, 1, s.CrystalBonus)
}

func TestUpgradeRequiresLandingAndFunds(t *testing.T) {
	s, spoken := newTestSession(t, 1)
	s.Crystals = 100
	s.buyUpgrade(UpgradeWidth)
	require.Equal(t, 100, s.Crystals, "upgrades only on the ground")

	s.Landed = true
	s.Crystals = 0
	s.buyUpgrade(UpgradeVelocity)
	require.Equal(t, BaseMaxVelocity, s.Drive.MaxVel)
	require.NotEmpty(t, *spoken)
}

func TestAscensionRebirth(t *testing.T) {
	s, _ := newTestSession(t, 1)
	oldSeed := s.Seed
	s.Crystals = AscensionCost + 2
	s.Rifts = []*Rift{{Remaining: 10}}
	s.Pos[0] = 42

	s.tryAscend()
	require.Equal(t, 2, s.Crystals)
	require.NotEqual(t, oldSeed, s.Seed)
	require.Empty(t, s.Rifts)
	require.Equal(t, Vec5{}, s.Pos)
}

func TestAscensionNeedsCrystals(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Crystals = AscensionCost - 1
	s.tryAscend()
	require.Equal(t, AscensionCost-1, s.Crystals)
}

func TestRiftEntryWarpsAndRewards(t *testing.T) {
	s, _ := newTestSession(t, 1)
	r := &Rift{Pos: s.Pos, Remaining: 30, Kind: RiftCrystal}
	s.Rifts = []*Rift{r}
	s.Nav.Lock(r.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)

	// Perfect tuning: resonance 1 everywhere, aligned on top of it.
	s.Drive.Tick(0.1, Vec5{})
	s.tryEnterRift()

	require.Equal(t, 1, s.Crystals)
	require.Empty(t, s.Rifts)
	require.False(t, s.Nav.Locked)
}

func TestRiftChargeWhenResonanceMid(t *testing.T) {
	s, _ := newTestSession(t, 1)
	r := &Rift{Pos: s.Pos, Remaining: 30, Kind: RiftBoost}
	s.Rifts = []*Rift{r}
	s.Nav.Lock(r.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)

	// Mid resonance: above half the entry threshold, below the
	// immediate-entry threshold.
	for i := 0; i < Dims; i++ {
		s.Drive.Drive[i] = 440 + BaseResonanceWidth // res 0.5 per dim
	}
	s.Drive.Tick(0.1, Vec5{})
	s.tryEnterRift()
	require.Positive(t, s.riftCharge, "mid resonance starts the charge sequence")
	require.Len(t, s.Rifts, 1, "not entered yet")
}

func TestRiftChargeAbortsWhenResonanceDrops(t *testing.T) {
	s, _ := newTestSession(t, 1)
	r := &Rift{Pos: s.Pos, Remaining: 30, Kind: RiftBoost}
	s.Rifts = []*Rift{r}
	s.Nav.Lock(r.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)
	s.riftCharge = RiftChargeTime

	for i := 0; i < Dims; i++ {
		s.Drive.Drive[i] = 800
	}
	s.Drive.Tick(0.1, Vec5{})
	s.updateRiftCharge(0.1)
	require.Zero(t, s.riftCharge)
	require.Len(t, s.Rifts, 1, "aborted charge leaves the rift intact")
}

func TestTakeOffClearsPlanetState(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Landed = true
	s.landedOn = &Planet{Class: OceanWorld, Parent: &Star{}}
	s.planetCrystals = []crystal{{freq: 300}}

	in := NoActions()
	in.Land = true
	s.Update(0.1, in)
	require.False(t, s.Landed)
	require.Nil(t, s.landedOn)
	require.Empty(t, s.planetCrystals)
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Pos[0] = 12
	s.Crystals = 7
	s.CrystalBonus = 2
	s.Drive.Width = 15
	s.Nav.ViewRot = 0.3
	s.Rifts = []*Rift{SpawnRift(s.Pos, s.rand)}

	st := s.Save()
	engine := NewAudioEngine(NewWaveBank())
	r := RestoreSession(st, engine, AnnouncerFunc(func(string) {}))

	assert.Equal(t, s.Pos, r.Pos)
	assert.Equal(t, 7, r.Crystals)
	assert.Equal(t, 2, r.CrystalBonus)
	assert.Equal(t, 15.0, r.Drive.Width)
	assert.Equal(t, 0.3, r.Nav.ViewRot)
	require.Len(t, r.Rifts, 1)
	assert.Equal(t, s.Rifts[0].ID, r.Rifts[0].ID)
	assert.Equal(t, s.Rifts[0].Pos, r.Rifts[0].Pos)
}

// pooledEffect fetches a live effect by handle after draining pending
// commands.
func pooledEffect(p *SoundPool, h Handle) *SoundEffect {
	p.Advance(0)
	for _, e := range p.effects {
		if e.handle == uint64(h) {
			return e
		}
	}
	return nil
}

func TestRiftExpiryKeepsUnrelatedLock(t *testing.T) {
	s, _ := newTestSession(t, 1)
	a := &Rift{Pos: Vec5{40, 0, 0, 0, 0}, Remaining: 100, Kind: RiftBoost}
	b := &Rift{Pos: Vec5{-40, 0, 0, 0, 0}, Remaining: 0.01, Kind: RiftCrystal}
	s.Rifts = []*Rift{a, b}
	s.Nav.Lock(a.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)

	// Low resonance so the dying rift gets no regeneration.
	for i := 0; i < Dims; i++ {
		s.Drive.Drive[i] = FreqMin
	}
	s.Update(0.1, NoActions())

	require.Len(t, s.Rifts, 1, "only the expired rift is removed")
	require.True(t, s.Nav.Locked, "a lock on a surviving rift outlives other expiries")
	require.True(t, s.Nav.IsRift)
	require.Equal(t, 0, s.Nav.RiftID, "lock index re-resolved after removals")
	assert.Equal(t, a.Pos, s.Nav.Target)
}

func TestLockedRiftExpiryDropsLock(t *testing.T) {
	s, _ := newTestSession(t, 1)
	a := &Rift{Pos: Vec5{40, 0, 0, 0, 0}, Remaining: 0.01, Kind: RiftBoost}
	s.Rifts = []*Rift{a}
	s.Nav.Lock(a.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)

	for i := 0; i < Dims; i++ {
		s.Drive.Drive[i] = FreqMin
	}
	s.Update(0.1, NoActions())

	require.Empty(t, s.Rifts)
	require.False(t, s.Nav.Locked)
}

func TestRiftHumScalesWithResonance(t *testing.T) {
	s, _ := newTestSession(t, 1)
	r := &Rift{Pos: s.Pos, Remaining: 1000, Kind: RiftBoost}
	r.Hum = s.Engine.Pool.Add(s.Bank.RiftHum, 0, 1.0, 0, true)
	s.Rifts = []*Rift{r}

	// One tick to learn this environment's targets, then tune onto them.
	s.Update(0.01, NoActions())
	s.Drive.Drive = s.Drive.Target
	s.Update(0.01, NoActions())
	hum := pooledEffect(s.Engine.Pool, r.Hum)
	require.NotNil(t, hum)
	tuned := hum.volume
	require.Greater(t, tuned, float32(0))

	// Same spot, badly detuned: the hum dims even though the rift is
	// just as close.
	for i := 0; i < Dims; i++ {
		tgt := s.Drive.Target[i]
		if tgt > (FreqMin+FreqMax)/2 {
			s.Drive.Drive[i] = tgt - 3*s.Drive.Width
		} else {
			s.Drive.Drive[i] = tgt + 3*s.Drive.Width
		}
	}
	s.Update(0.01, NoActions())
	s.Engine.Pool.Advance(0)
	require.Less(t, hum.volume, tuned/2)
}

func TestLockedRiftBeepPacesWithAlignment(t *testing.T) {
	countBeeps := func(s *GameSession) int {
		s.Engine.Pool.Advance(0)
		n := 0
		for _, e := range s.Engine.Pool.effects {
			if sameBuffer(e.samples, s.Bank.RiftBeep) && !e.loop {
				n++
			}
		}
		return n
	}

	// Rift dead ahead: pan 0, beeps every 0.2 s.
	s, _ := newTestSession(t, 1)
	a := &Rift{Pos: Vec5{30, 0, 0, 0, 0}, Remaining: 1000, Kind: RiftBoost}
	s.Rifts = []*Rift{a}
	s.Nav.Lock(a.Pos, true, 0, s.Engine.Pool, s.Bank, 0.3)
	for i := 0; i < 10; i++ {
		s.Update(0.1, NoActions())
	}
	require.GreaterOrEqual(t, countBeeps(s), 2)

	// Rift square to the view: |pan| 1, beeps every 2 s — none within
	// the first second.
	s2, _ := newTestSession(t, 1)
	b := &Rift{Pos: Vec5{0, 30, 0, 0, 0}, Remaining: 1000, Kind: RiftBoost}
	s2.Rifts = []*Rift{b}
	s2.Nav.Lock(b.Pos, true, 0, s2.Engine.Pool, s2.Bank, 0.3)
	for i := 0; i < 10; i++ {
		s2.Update(0.1, NoActions())
	}
	require.Zero(t, countBeeps(s2))
}

func TestApproachBeepPlaysOnProximity(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Pos = s.Universe.Stars[0].Pos(0)

	s.Update(0.01, NoActions())
	s.Engine.Pool.Advance(0)
	require.True(t, s.Engine.Pool.hasBuffer(s.Bank.ApproachingBeep))
}

func TestDissonanceEventAnnounced(t *testing.T) {
	s, spoken := newTestSession(t, 1)
	for i := 0; i < Dims; i++ {
		s.Drive.Drive[i] = 800
	}

	for i := 0; i < 200; i++ {
		s.Update(0.1, NoActions())
	}

	found := false
	for _, msg := range *spoken {
		if msg == "Dissonance detected. Retune." {
			found = true
		}
	}
	require.True(t, found)
}
