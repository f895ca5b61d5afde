package game

import "github.com/google/uuid"

// RiftKind determines what falling through a rift does.
type RiftKind int

const (
	RiftBoost RiftKind = iota
	RiftCrystal
	RiftHazard
)

func (k RiftKind) String() string {
	switch k {
	case RiftBoost:
		return "boost"
	case RiftCrystal:
		return "crystal"
	case RiftHazard:
		return "hazard"
	}
	return "unknown"
}

// Rift is a transient high-resonance spawn. The simulation owns the
// rift; the hum it emits is owned by the sound pool and referenced
// by handle only, so a finished or stopped hum is never touched.
type Rift struct {
	ID        uuid.UUID
	Pos       Vec5
	Remaining float64
	Kind      RiftKind
	Hum       Handle
}

// rollRiftKind picks a kind: boost and crystal are common, hazards
// rare.
func rollRiftKind(rnd *Rand) RiftKind {
	switch r := rnd.Float64(); {
	case r < 0.45:
		return RiftBoost
	case r < 0.85:
		return RiftCrystal
	}
	return RiftHazard
}

// SpawnRift creates a rift echoing the ship's spatial position into
// the higher dimensions at golden-ratio offsets.
func SpawnRift(shipPos Vec5, rnd *Rand) *Rift {
	pos := shipPos
	pos[3] = shipPos[0] * PHI
	pos[4] = shipPos[1] * PHI
	pos = pos.Wrap()
	return &Rift{
		ID:        uuid.New(),
		Pos:       pos,
		Remaining: RiftLifetime,
		Kind:      rollRiftKind(rnd),
	}
}

// TickRifts burns lifetime, feeding rifts back while the ship holds
// high resonance. Expired rifts have their hums stopped and are
// dropped. Returns the surviving list and the expired ones.
func TickRifts(rifts []*Rift, dt, meanRes float64, pool *SoundPool) (alive, expired []*Rift) {
	alive = rifts[:0]
	for _, r := range rifts {
		if meanRes > RiftSpawnRes {
			r.Remaining += dt * PHI
		}
		r.Remaining -= dt
		if r.Remaining <= 0 {
			pool.Stop(r.Hum)
			r.Hum = 0
			expired = append(expired, r)
			continue
		}
		alive = append(alive, r)
	}
	return alive, expired
}
