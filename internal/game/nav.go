package game

import "math"

// NavState is the ship's lock-on and steering state. The autopilot
// replaces manual tuning by solving the resonance curve backwards:
// given the velocity component it wants, it computes the frequency
// offset that produces it and steers the drive there.
type NavState struct {
	Locked     bool
	Target     Vec5
	IsRift     bool
	RiftID     int // index into the session's rift list while locked
	Reached    bool
	ViewRot    float64
	LockSound  Handle
}

// Unlock clears the lock and silences the lock tone.
func (n *NavState) Unlock(pool *SoundPool) {
	if n.LockSound != 0 {
		pool.Stop(n.LockSound)
		n.LockSound = 0
	}
	n.Locked = false
	n.IsRift = false
	n.Reached = false
	n.RiftID = -1
}

// Lock sets a target and starts the looping lock tone.
func (n *NavState) Lock(target Vec5, isRift bool, riftID int, pool *SoundPool, bank *WaveBank, beepVol float64) {
	n.Unlock(pool)
	n.Locked = true
	n.Target = target
	n.IsRift = isRift
	n.RiftID = riftID
	wf := bank.Beep
	if isRift {
		wf = bank.RiftBeep
	}
	n.LockSound = pool.Add(wf, 0, 1.0, beepVol, true)
}

// navResult reports what the autopilot did this tick.
type navResult int

const (
	navIdle navResult = iota
	navSteering
	navArrived        // target reached and lock cleared
	navHoldingAtRift  // aligned with a rift, awaiting manual entry
)

// Steer runs one autopilot tick against the drive. Target frequencies
// must already carry this tick's environmental influence.
func (n *NavState) Steer(d *DriveState, pos Vec5, pool *SoundPool, bank *WaveBank, beepVol float64) navResult {
	if !n.Locked {
		return navIdle
	}

	dir := pos.WrapDelta(n.Target)
	norm := dir.Len()
	if norm < 1e-6 {
		norm = 1e-6
	}

	stopDist := NavStopDistance
	if n.IsRift {
		stopDist = RiftAlignDist
	}

	if norm < stopDist {
		// Snap to target frequencies: zero relative velocity.
		for i := 0; i < Dims; i++ {
			d.Drive[i] = d.Target[i]
		}
		d.Velocity = Vec5{}
		if n.IsRift {
			// Hold here; entry is a manual action.
			first := !n.Reached
			n.Reached = true
			if first {
				return navHoldingAtRift
			}
			return navSteering
		}
		n.Unlock(pool)
		return navArrived
	}

	slowdown := math.Min(1, norm/NavSlowdownDistance)
	for i := 0; i < Dims; i++ {
		desiredVel := dir[i] / norm * d.MaxVel * slowdown

		// Invert the resonance curve: which detune magnitude yields
		// this velocity fraction. The >0.01 guard reuses the plain
		// target below it; resting behavior is tuned around it.
		targetRes := 0.0
		if absF(desiredVel) > 0.01 {
			targetRes = math.Min(NavMaxDesiredRes, absF(desiredVel)/d.MaxVel)
		}
		targetDrive := d.Target[i]
		if targetRes > 0 {
			delta := d.Width * math.Sqrt(1/targetRes-1)
			targetDrive = d.Target[i] + signF(desiredVel)*delta
		}

		if norm < NavSlowdownDistance/2 {
			// Snap when close to avoid oscillation around zero.
			d.Drive[i] = clampF(targetDrive, FreqMin, FreqMax)
		} else {
			d.Drive[i] = clampF(d.Drive[i]+(targetDrive-d.Drive[i])*NavTuneRate, FreqMin, FreqMax)
		}
	}

	// Lock tone: pan follows the projected bearing, pitch rises with
	// misalignment. This is the sound the player actually steers by.
	if n.LockSound != 0 {
		pan := PanToward(dir, n.ViewRot)
		pool.Set(n.LockSound, pan, beepVol)
		angle := math.Abs(bearingOf(dir, n.ViewRot)) * 180 / math.Pi
		pitch := 1.0 + angle/180.0
		wf := bank.Beep
		if n.IsRift {
			wf = bank.RiftBeep
		}
		pool.Retune(n.LockSound, Resample(wf, pitch))
	}
	return navSteering
}

func bearingOf(rel Vec5, rotation float64) float64 {
	sx, sy := ProjectScreen(rel, rotation, WindowWidth, WindowHeight)
	return math.Atan2(float64(sy)-WindowHeight/2, float64(sx)-WindowWidth/2)
}

// AutoRotate turns the view so the locked target sits centered, using
// the shortest angular path at half speed. Stops when nearly on top
// of the target to avoid jitter.
func (n *NavState) AutoRotate(pos Vec5) {
	if !n.Locked {
		return
	}
	dir := pos.WrapDelta(n.Target)
	if dir.Len() <= 1.0 {
		return
	}
	targetR := n.ViewRot
	if math.Hypot(dir[0], dir[3]) > 1e-6 {
		targetR = math.Atan2(dir[3], dir[0])
		if dir[0]*math.Cos(targetR)+dir[3]*math.Sin(targetR) < 0 {
			targetR += math.Pi
		}
	}
	delta := targetR - n.ViewRot
	if delta > math.Pi {
		delta -= 2 * math.Pi
	} else if delta < -math.Pi {
		delta += 2 * math.Pi
	}
	n.ViewRot += delta * 0.5
}
