package system

import (
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/physics"
)

// CharacterFilterSystem rebuilds every character's query filter: the mask is
// the character's collision filters and sensors plus its own collider are
// excluded.
type CharacterFilterSystem struct {
	sensors []physics.ColliderID
}

func NewCharacterFilterSystem() *CharacterFilterSystem {
	return &CharacterFilterSystem{}
}

func (s *CharacterFilterSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	s.sensors = s.sensors[:0]
	pw.Each(func(id physics.ColliderID, c physics.Collider) {
		if c.Sensor {
			s.sensors = append(s.sensors, id)
		}
	})

	ecs.ForEach(w, component.CharacterFilterComponent.Kind(), func(e ecs.Entity, f *component.CharacterFilter) {
		mask := physics.AllMask
		if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			mask = layer.Layers().Filters
		}
		f.Reset()
		f.Mask = mask
		f.Exclude(s.sensors...)
		if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok && col.ID.Valid() {
			f.Exclude(col.ID)
		}
	})
}
