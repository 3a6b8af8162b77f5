package component

import "github.com/go-gl/mathgl/mgl64"

// SafeRespawn stores the last position an entity stood on walkable ground.
type SafeRespawn struct {
	Position    mgl64.Vec3
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
