package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Actions is one frame's worth of player intent, decoupled from the
// key bindings that produced it. The session consumes Actions only, so
// tests can drive it without a window.
type Actions struct {
	SelectDim int // -1 when no dimension key was pressed
	Upgrade   int // -1 when no upgrade key was pressed

	AdjustUp   bool
	AdjustDown bool
	CycleStep  bool
	CycleSpeed bool

	RotateLeft  bool // held, not edge triggered
	RotateRight bool

	ToggleSing bool
	Lock       bool
	Unlock     bool
	EnterRift  bool
	Land       bool
	Ascend     bool
}

// NoActions is a frame with nothing pressed.
func NoActions() Actions {
	return Actions{SelectDim: -1, Upgrade: -1}
}

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) justPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func held(window *glfw.Window, key glfw.Key) bool {
	return window.GetKey(key) == glfw.Press
}

var dimKeys = [Dims]glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5}
var upgradeKeys = []glfw.Key{glfw.KeyF1, glfw.KeyF2, glfw.KeyF3, glfw.KeyF4}

// Poll reads the keyboard once and folds it into an Actions frame.
// Tuning and mode keys are edge triggered; view rotation is held.
func (in *Input) Poll(window *glfw.Window) Actions {
	act := NoActions()

	for i, k := range dimKeys {
		if in.justPressed(window, k) {
			act.SelectDim = i
		}
	}
	for i, k := range upgradeKeys {
		if in.justPressed(window, k) {
			act.Upgrade = i
		}
	}

	act.AdjustUp = in.justPressed(window, glfw.KeyUp)
	act.AdjustDown = in.justPressed(window, glfw.KeyDown)
	act.CycleStep = in.justPressed(window, glfw.KeyTab)
	act.CycleSpeed = in.justPressed(window, glfw.KeyF)

	act.RotateLeft = held(window, glfw.KeyLeft) || held(window, glfw.KeyQ)
	act.RotateRight = held(window, glfw.KeyRight) || held(window, glfw.KeyE)

	act.ToggleSing = in.justPressed(window, glfw.KeyV)
	act.Lock = in.justPressed(window, glfw.KeyL)
	act.Unlock = in.justPressed(window, glfw.KeyU)
	act.EnterRift = in.justPressed(window, glfw.KeySpace)
	act.Land = in.justPressed(window, glfw.KeyG)
	act.Ascend = in.justPressed(window, glfw.KeyBackspace)

	return act
}
