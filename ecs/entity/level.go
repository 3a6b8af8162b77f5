package entity

import (
	"fmt"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/levels"
	"github.com/milk9111/kcc/physics"
	"github.com/milk9111/kcc/prefabs"
)

// LoadLevelToWorld creates one entity per level object plus the level bounds.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) error {
	if w == nil || lvl == nil {
		return fmt.Errorf("level: world and level are required")
	}

	var bounds physics.AABB
	for i, obj := range lvl.Expand() {
		shape, err := obj.Shape.Shape()
		if err != nil {
			return fmt.Errorf("level %s: object %q: %w", lvl.Name, obj.Name, err)
		}
		memberships, err := prefabs.LayerMask(obj.Layers)
		if err != nil {
			return fmt.Errorf("level %s: object %q: %w", lvl.Name, obj.Name, err)
		}
		if memberships == 0 {
			memberships = physics.LayerDefault
		}

		tf := obj.Transform.Transform()
		box := shape.AABB(tf.Translation, tf.Rotation)
		if i == 0 {
			bounds = box
		} else {
			bounds = bounds.Union(box)
		}

		e := ecs.CreateEntity(w)
		prev := component.PreviousTransform(tf)
		if err := addAll(w, e,
			func() error { return ecs.Add(w, e, component.TransformComponent.Kind(), &tf) },
			func() error { return ecs.Add(w, e, component.PreviousTransformComponent.Kind(), &prev) },
			func() error {
				return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: shape, Sensor: obj.Sensor})
			},
			func() error {
				return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Memberships: memberships})
			},
			func() error {
				return ecs.Add(w, e, component.RenderStyleComponent.Kind(), &component.RenderStyle{
					Name:  obj.Name,
					Color: obj.Color.NRGBA(objectColor),
				})
			},
		); err != nil {
			return fmt.Errorf("level %s: object %q: %w", lvl.Name, obj.Name, err)
		}

		if obj.Platform != nil {
			if err := ecs.Add(w, e, component.PlatformComponent.Kind(), &component.Platform{
				Script:   obj.Platform.Script,
				Origin:   tf.Translation,
				Rotation: tf.Rotation,
				Params:   obj.Platform.Params,
			}); err != nil {
				return fmt.Errorf("level %s: platform %q: %w", lvl.Name, obj.Name, err)
			}
		}
	}

	e := ecs.CreateEntity(w)
	return ecs.Add(w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Min:   bounds.Min,
		Max:   bounds.Max,
		KillY: lvl.KillY,
		Spawn: lvl.Spawn.Vec(),
	})
}

func addAll(w *ecs.World, e ecs.Entity, adds ...func() error) error {
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return err
		}
	}
	return nil
}
