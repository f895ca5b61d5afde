package game

import "math"

// 5D→2D projection. The view rotation blends the two higher
// dimensions into the spatial plane; audio panning and the render
// shell both depend on this exact mapping.

// Project rotates a 5D position into the 2D view plane.
func Project(pos Vec5, rotation float64) (x, y float64) {
	c := math.Cos(rotation)
	s := math.Sin(rotation)
	return pos[0]*c + pos[3]*s, pos[1]*c + pos[4]*s
}

// ProjectScreen maps a 5D position to pixel coordinates.
func ProjectScreen(pos Vec5, rotation float64, w, h int) (sx, sy int) {
	x, y := Project(pos, rotation)
	return int((x + UniverseHalf) / UniverseSize * float64(w)),
		int((y + UniverseHalf) / UniverseSize * float64(h))
}

// PanToward is the stereo pan of a body relative to the ship under
// the current view rotation: the sine of the screen-space bearing.
func PanToward(rel Vec5, rotation float64) float64 {
	sx, sy := ProjectScreen(rel, rotation, WindowWidth, WindowHeight)
	angle := math.Atan2(float64(sy)-WindowHeight/2, float64(sx)-WindowWidth/2)
	return math.Sin(angle)
}

// BodyView is one celestial body or rift in the render snapshot.
type BodyView struct {
	Pos   Vec5
	X, Y  float64 // projected view-plane position
	Label string
	Kind  BodyViewKind
}

type BodyViewKind int

const (
	ViewStar BodyViewKind = iota
	ViewPlanet
	ViewNebula
	ViewRift
)

// RenderSnapshot is the read-only per-tick view handed to the shell.
// It is rebuilt every tick; the shell must not retain it across ticks.
type RenderSnapshot struct {
	Position  Vec5
	Velocity  Vec5
	Resonance Vec5
	Drive     Vec5
	Target    Vec5

	ViewRotation float64
	SelectedDim  int
	Crystals     int
	Landed       bool
	MeanRes      float64

	Bodies []BodyView
}
