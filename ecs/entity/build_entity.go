package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/kcc"
	"github.com/milk9111/kcc/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"camera_tag":      addCameraTag,
	"ghost_tag":       addGhostTag,
	"input":           addInput,
	"transform":       addTransform,
	"character":       addCharacter,
	"collider":        addCollider,
	"collision_layer": addCollisionLayer,
	"camera_rig":      addCameraRig,
	"safe_respawn":    addSafeRespawn,
}

// componentBuildOrder lists components that depend on earlier ones last.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"ghost_tag",
	"input",
	"transform",
	"collision_layer",
	"character",
	"collider",
	"camera_rig",
	"safe_respawn",
}

// BuildEntity creates an entity from the prefab at prefabPath.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return buildRank(names[i]) < buildRank(names[j])
	})

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}
	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}
	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

// SetEntityTransform moves e, creating its transform when missing.
func SetEntityTransform(w *ecs.World, e ecs.Entity, position mgl64.Vec3, rotation mgl64.Quat) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{}
	}
	t.Translation = position
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addGhostTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GhostTagComponent.Kind(), &component.GhostTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addSafeRespawn(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.TransformSpec{})
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := spec.Transform()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
		return err
	}
	prev := component.PreviousTransform(t)
	return ecs.Add(w, e, component.PreviousTransformComponent.Kind(), &prev)
}

// addCharacter also gives the entity its capsule collider and query filter.
func addCharacter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.DefaultTuningSpec())
	if err != nil {
		return fmt.Errorf("decode character spec: %w", err)
	}
	tuning, err := spec.Tuning()
	if err != nil {
		return err
	}

	ch := kcc.NewCharacter()
	ch.Config = spec.MoveAndSlide
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{Character: ch, Tuning: tuning}); err != nil {
		return err
	}
	if !ecs.Has(w, e, component.ColliderComponent.Kind()) {
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: tuning.Shape()}); err != nil {
			return err
		}
	}
	return ecs.Add(w, e, component.CharacterFilterComponent.Kind(), &component.CharacterFilter{})
}

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.ColliderComponentSpec{})
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	shape, err := spec.Shape.Shape()
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: shape, Sensor: spec.Sensor})
}

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.CollisionLayerComponentSpec{})
	if err != nil {
		return fmt.Errorf("decode collision_layer spec: %w", err)
	}
	memberships, err := prefabs.LayerMask(spec.Memberships)
	if err != nil {
		return err
	}
	filters, err := prefabs.LayerMask(spec.Filters)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Memberships: memberships,
		Filters:     filters,
	})
}

func addCameraRig(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec(raw, prefabs.DefaultCameraRigSpec())
	if err != nil {
		return fmt.Errorf("decode camera_rig spec: %w", err)
	}
	if spec.MinDistance <= 0 || spec.MaxDistance < spec.MinDistance {
		return fmt.Errorf("camera_rig: invalid distance range [%v, %v]", spec.MinDistance, spec.MaxDistance)
	}
	distance := mgl64.Clamp(spec.Distance, spec.MinDistance, spec.MaxDistance)
	return ecs.Add(w, e, component.CameraRigComponent.Kind(), &component.CameraRig{
		Pitch:          mgl64.DegToRad(spec.PitchDegrees),
		Sensitivity:    spec.Sensitivity,
		Offset:         spec.Offset.Vec(),
		RelativeOffset: spec.RelativeOffset.Vec(),
		Distance:       distance,
		TargetDistance: distance,
		MinDistance:    spec.MinDistance,
		MaxDistance:    spec.MaxDistance,
		ZoomStep:       spec.ZoomStep,
		RecoverSpeed:   spec.RecoverSpeed,
		ProbeRadius:    spec.ProbeRadius,
		FlySpeed:       spec.FlySpeed,
		FirstPerson:    spec.FirstPerson,
	})
}
