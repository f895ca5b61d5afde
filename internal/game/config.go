package game

import "math"

// PHI is the golden ratio, used throughout generation, harmonics and
// upgrade scaling.
const PHI = 1.6180339887498949

// Simulation dimensions and pacing.
const (
	Dims        = 5
	TickRate    = 60.0
	TickSeconds = 1.0 / TickRate
	MaxFrameDT  = 0.1
)

// Drive tuning.
const (
	FreqMin = 200.0
	FreqMax = 800.0

	BaseResonanceWidth = 10.0
	BaseMaxVelocity    = 10.0

	// Seconds of sustained resonance needed for a full power boost.
	PowerBuildTime = 5.0
	PowerThreshold = 0.8

	// Drive adjustment steps per keypress (fine / normal / coarse).
	StepFine   = 0.2
	StepNormal = 1.0
	StepCoarse = 5.0
)

// Universe layout. Coordinates wrap to [-UniverseHalf, UniverseHalf).
const (
	UniverseHalf = 100.0
	UniverseSize = 2 * UniverseHalf

	StarCount      = 200
	MaxPlanets     = 3
	NebulaCount    = 10
	InteractRadius = 15.0

	// ScaleFactor spreads the Fibonacci shell spacing over the universe.
	ScaleFactor = UniverseHalf / 13.0
)

// Rifts.
const (
	RiftSpawnChance = 0.001
	RiftSpawnRes    = 0.9
	RiftLifetime    = 30.0
	RiftChargeTime  = 4.0
	RiftNudgeRate   = 0.2
	RiftAlignDist   = 20.0
	RiftEntryRes    = 0.6
	RiftMaxDist     = 20.0
	MaxRifts        = 8
)

// Dissonance (sustained detune penalty).
const (
	DissonanceLevel   = 0.2
	DissonanceTime    = 10.0
	DissonanceImpulse = 0.5
)

// Landing and crystals.
const (
	LandingResBase   = 0.8
	LandingChargeSec = 3.0
	LandingRange     = 3.0
	AscensionCost    = 21
)

// Navigation.
const (
	NavStopDistance     = 1.0
	NavSlowdownDistance = 20.0
	NavTuneRate         = 0.1
	NavMaxDesiredRes    = 0.999
)

// Harmonics.
const (
	HarmonicTolerance = 0.02
	HarmonicScanSec   = 0.5
	HarmonicBonusSec  = 2.0
)

// Announce repeat-suppression window.
const AnnounceCooldown = 0.5

// Audio output format.
const (
	SampleRate    = 44100
	ChannelCount  = 2
	BytesPerFrame = ChannelCount * 4 // float32 samples

	SchumannFreq = 7.83
	SchumannAmp  = 0.01
)

// Sound effect pool sizing.
const (
	PoolCommandCap = 256
	PoolEffectCap  = 128
)

// Window defaults for the desktop shell.
const (
	WindowWidth  = 800
	WindowHeight = 600
)

// fibonacci spaces star shells and prices upgrades.
var fibonacci = [...]int{1, 1, 2, 3, 5, 8, 13, 21}

// goldenAngle is the spiral increment 2π(1 − 1/PHI).
var goldenAngle = 2 * math.Pi * (1 - 1/PHI)
