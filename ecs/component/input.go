package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame action state for an entity.
type Input struct {
	// Move is the planar move axis: X strafes right, Y goes forward.
	Move mgl64.Vec2
	// Look is the look delta for this frame.
	Look mgl64.Vec2
	// Fly is the vertical axis used by the fly camera.
	Fly  float64
	Zoom float64

	Jump        bool
	JumpPressed bool

	ToggleView bool
	ToggleFly  bool
	Record     bool
	Save       bool
	Pause      bool
	Reset      bool
}

var InputComponent = NewComponent[Input]()

// Actions returns a copy with the one-shot actions cleared.
func (i Input) Actions() Input {
	i.JumpPressed = false
	i.ToggleView = false
	i.ToggleFly = false
	i.Record = false
	i.Save = false
	i.Pause = false
	i.Reset = false
	return i
}
