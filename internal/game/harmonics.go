package game

// Harmonic intervals detectable between two dimensions' drive
// frequencies. Ratios are compared high/low so they are always >= 1.
type Harmonic int

const (
	Octave Harmonic = iota
	PerfectFifth
	PerfectFourth
	MajorThird
	MinorThird
	MajorSixth
	MinorSixth
	Tritone
	GoldenRatio
)

func (h Harmonic) String() string {
	switch h {
	case Octave:
		return "octave"
	case PerfectFifth:
		return "perfect fifth"
	case PerfectFourth:
		return "perfect fourth"
	case MajorThird:
		return "major third"
	case MinorThird:
		return "minor third"
	case MajorSixth:
		return "major sixth"
	case MinorSixth:
		return "minor sixth"
	case Tritone:
		return "tritone"
	case GoldenRatio:
		return "golden"
	}
	return "unknown"
}

func (h Harmonic) Ratio() float64 {
	switch h {
	case Octave:
		return 2.0
	case PerfectFifth:
		return 1.5
	case PerfectFourth:
		return 1.333
	case MajorThird:
		return 1.25
	case MinorThird:
		return 1.2
	case MajorSixth:
		return 1.667
	case MinorSixth:
		return 1.6
	case Tritone:
		return 1.414
	case GoldenRatio:
		return PHI
	}
	return 0
}

// harmonicOrder is the match precedence; only the first matching
// interval is reported for a pair.
var harmonicOrder = [...]Harmonic{
	Octave, PerfectFifth, PerfectFourth, MajorThird, MinorThird,
	MajorSixth, MinorSixth, Tritone, GoldenRatio,
}

// HarmonicPair is a detected interval between two dimensions.
type HarmonicPair struct {
	Kind   Harmonic
	DimA   int
	DimB   int
	FreqA  float64
	FreqB  float64
}

// DetectHarmonics scans all dimension pairs of freqs for known
// interval ratios within the relative tolerance.
func DetectHarmonics(freqs Vec5) []HarmonicPair {
	out := make([]HarmonicPair, 0, Dims*(Dims-1)/2)
	n := detectHarmonicsInto(freqs, out)
	return out[:n]
}

// detectHarmonicsInto appends into a pre-sized buffer so the audio
// callback can scan without allocating. dst must have capacity for
// every pair; returns the number of matches written.
func detectHarmonicsInto(freqs Vec5, dst []HarmonicPair) int {
	n := 0
	for i := 0; i < Dims; i++ {
		for j := i + 1; j < Dims; j++ {
			fi, fj := freqs[i], freqs[j]
			if fi == 0 || fj == 0 {
				continue
			}
			ratio := fi / fj
			if ratio < 1 {
				ratio = 1 / ratio
			}
			for _, h := range harmonicOrder {
				target := h.Ratio()
				if absF(ratio-target) < target*HarmonicTolerance {
					dst = append(dst[:n], HarmonicPair{Kind: h, DimA: i, DimB: j, FreqA: fi, FreqB: fj})
					n++
					break
				}
			}
		}
	}
	return n
}
