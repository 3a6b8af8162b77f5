package component

import "github.com/go-gl/mathgl/mgl64"

// LevelBounds stores the extent of the loaded level. Characters that fall
// below KillY are respawned.
type LevelBounds struct {
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	KillY float64
	Spawn mgl64.Vec3
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
