package component

import "github.com/go-gl/mathgl/mgl64"

// Platform is a kinematic collider moved along a scripted path.
// The script returns an offset from Origin and an optional yaw on top of
// Rotation for the elapsed time.
type Platform struct {
	Script   string
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
	Time     float64
	Params   map[string]float64
}

var PlatformComponent = NewComponent[Platform]()
