package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

// InputSource produces the action state for one frame.
type InputSource interface {
	Poll() component.Input
}

type InputSystem struct {
	Source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{Source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.Source == nil {
		return
	}

	frame := i.Source.Poll()
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = frame
	})
}

// DeviceInput reads keyboard, mouse and the first gamepad through ebiten.
type DeviceInput struct {
	lastX, lastY int
	primed       bool
	// LookScale converts stick deflection into the same units as mouse pixels.
	LookScale float64
}

func NewDeviceInput() *DeviceInput {
	return &DeviceInput{LookScale: 12}
}

// Rearm drops the last cursor position so the next poll reports no look delta.
func (d *DeviceInput) Rearm() {
	d.primed = false
}

func (d *DeviceInput) Poll() component.Input {
	const stickDeadzone = 0.2

	var in component.Input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move[0] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move[0] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move[1] += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move[1] -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		in.Fly += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		in.Fly -= 1
	}

	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.ToggleView = inpututil.IsKeyJustPressed(ebiten.KeyV)
	in.ToggleFly = inpututil.IsKeyJustPressed(ebiten.KeyF)
	in.Record = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.Save = inpututil.IsKeyJustPressed(ebiten.KeyT)
	in.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	in.Reset = inpututil.IsKeyJustPressed(ebiten.KeyBackspace)

	x, y := ebiten.CursorPosition()
	if d.primed && ebiten.CursorMode() == ebiten.CursorModeCaptured {
		in.Look = mgl64.Vec2{float64(x - d.lastX), float64(y - d.lastY)}
	}
	d.lastX, d.lastY = x, y
	d.primed = true

	_, wheel := ebiten.Wheel()
	in.Zoom = wheel

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.Move = mgl64.Vec2{lx, -ly}
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.Look = mgl64.Vec2{rx * d.LookScale, ry * d.LookScale}
		}

		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.ToggleView = in.ToggleView || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.ToggleFly = in.ToggleFly || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.Pause = in.Pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)

		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight) {
			in.Fly += 1
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopLeft) {
			in.Fly -= 1
		}
	}

	if in.Move.Len() > 1 {
		in.Move = in.Move.Normalize()
	}
	in.Fly = mgl64.Clamp(in.Fly, -1, 1)
	return in
}

// ScriptedInput replays a fixed list of frames, then repeats the last one
// with its one-shot actions cleared.
type ScriptedInput struct {
	Frames []component.Input
	next   int
}

func (s *ScriptedInput) Poll() component.Input {
	if len(s.Frames) == 0 {
		return component.Input{}
	}
	if s.next >= len(s.Frames) {
		return s.Frames[len(s.Frames)-1].Actions()
	}
	in := s.Frames[s.next]
	s.next++
	return in
}

// Done reports whether every scripted frame has been played.
func (s *ScriptedInput) Done() bool {
	return s.next >= len(s.Frames)
}
