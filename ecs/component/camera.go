package component

import "github.com/go-gl/mathgl/mgl64"

// CameraRig orbits the camera around a target entity.
type CameraRig struct {
	Yaw         float64
	Pitch       float64
	Sensitivity float64

	// Offset is added in world space, RelativeOffset is rotated by the view.
	Offset         mgl64.Vec3
	RelativeOffset mgl64.Vec3

	Distance       float64
	TargetDistance float64
	MinDistance    float64
	MaxDistance    float64
	ZoomStep       float64
	RecoverSpeed   float64
	ProbeRadius    float64

	FirstPerson bool
	Flying      bool
	FlySpeed    float64
}

var CameraRigComponent = NewComponent[CameraRig]()

// View is the rotation the camera looks along.
func (c CameraRig) View() mgl64.Quat {
	yaw := mgl64.QuatRotate(c.Yaw, mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(c.Pitch, mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}
