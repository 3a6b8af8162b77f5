package system

import (
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/physics"
	"github.com/rs/zerolog/log"
)

// PhysicsSyncSystem mirrors collider components into the collision world:
// new colliders are registered, poses are copied every step, and colliders
// whose entity is gone are removed.
type PhysicsSyncSystem struct {
	owners map[physics.ColliderID]ecs.Entity
}

func NewPhysicsSyncSystem() *PhysicsSyncSystem {
	return &PhysicsSyncSystem{owners: map[physics.ColliderID]ecs.Entity{}}
}

func (s *PhysicsSyncSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, col *component.Collider, tf *component.Transform) {
		layers := physics.AllLayers
		if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			layers = layer.Layers()
		}
		rot := common.OrIdentity(tf.Rotation)

		if !col.ID.Valid() {
			col.ID = pw.Add(physics.Collider{
				Shape:    col.Shape,
				Position: tf.Translation,
				Rotation: rot,
				Layers:   layers,
				Sensor:   col.Sensor,
				UserData: e,
			})
			s.owners[col.ID] = e
			return
		}

		if err := pw.SetTransform(col.ID, tf.Translation, rot); err != nil {
			log.Warn().Err(err).Stringer("entity", e).Msg("physics: sync transform")
			col.ID = 0
			return
		}
		if current, ok := pw.Get(col.ID); ok && current.Layers != layers {
			_ = pw.SetLayers(col.ID, layers)
		}
	})

	for id, e := range s.owners {
		col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
		if ok && col.ID == id {
			continue
		}
		pw.Remove(id)
		delete(s.owners, id)
	}
}

// Forget removes the collider of e from the collision world so the next
// update registers it again.
func (s *PhysicsSyncSystem) Forget(w *ecs.World, e ecs.Entity) {
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok || !col.ID.Valid() {
		return
	}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.Remove(col.ID)
	}
	delete(s.owners, col.ID)
	col.ID = 0
}
