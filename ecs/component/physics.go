package component

import "github.com/milk9111/kcc/physics"

// Collider registers an entity's shape with the collision world.
// ID is filled in by the physics sync system.
type Collider struct {
	Shape  physics.Shape
	Sensor bool
	ID     physics.ColliderID
}

var ColliderComponent = NewComponent[Collider]()
