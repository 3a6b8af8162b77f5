package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/kcc"
)

type RespawnSystem struct{}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update remembers where characters last stood on static ground, requests a
// respawn for characters below the kill plane and performs pending requests.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var bounds *component.LevelBounds
	if e, ok := ecs.First(w, component.LevelBoundsComponent.Kind()); ok {
		bounds, _ = ecs.Get(w, e, component.LevelBoundsComponent.Kind())
	}

	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ch *component.Character, tf *component.Transform) {
		if bounds != nil && tf.Translation.Y() < bounds.KillY {
			_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
			return
		}
		if !ch.Grounded() || s.onPlatform(w, ch.Ground) {
			return
		}
		if safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind()); ok {
			safe.Position = tf.Translation
			safe.Initialized = true
		}
	})

	ecs.ForEach(w, component.RespawnRequestComponent.Kind(), func(e ecs.Entity, _ *component.RespawnRequest) {
		defer ecs.Remove(w, e, component.RespawnRequestComponent.Kind())

		tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}

		target := tf.Translation
		switch safe, ok := ecs.Get(w, e, component.SafeRespawnComponent.Kind()); {
		case ok && safe.Initialized:
			target = safe.Position
		case bounds != nil:
			target = bounds.Spawn
		}
		tf.Translation = target

		if prev, ok := ecs.Get(w, e, component.PreviousTransformComponent.Kind()); ok {
			*prev = component.PreviousTransform(*tf)
		}
		if ch, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok {
			ch.Velocity = mgl64.Vec3{}
			ch.Ground = kcc.Ground{}
			ch.PreviousGround = kcc.Ground{}
		}
		w.Events().Push(ecs.Event{Kind: ecs.EventRespawned, Entity: e, Data: target})
	})
}

func (s *RespawnSystem) onPlatform(w *ecs.World, g kcc.Ground) bool {
	pw := w.PhysicsWorld()
	if pw == nil {
		return false
	}
	c, ok := pw.Get(g.Collider)
	if !ok {
		return false
	}
	owner, ok := c.UserData.(ecs.Entity)
	if !ok {
		return false
	}
	return ecs.Has(w, owner, component.PlatformComponent.Kind()) || ecs.Has(w, owner, component.CharacterComponent.Kind())
}
