package component

import "github.com/milk9111/kcc/physics"

// CollisionLayer declares which layers an entity belongs to and which layers
// it collides with. A zero value means all layers.
type CollisionLayer struct {
	Memberships uint `yaml:"memberships,omitempty"`
	Filters     uint `yaml:"filters,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()

func (c CollisionLayer) Layers() physics.Layers {
	l := physics.Layers{Memberships: c.Memberships, Filters: c.Filters}
	if l.Memberships == 0 {
		l.Memberships = physics.AllMask
	}
	if l.Filters == 0 {
		l.Filters = physics.AllMask
	}
	return l
}
