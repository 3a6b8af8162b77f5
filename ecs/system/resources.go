package system

import (
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

const defaultDt = 1.0 / 60

func clockOf(w *ecs.World) *component.Clock {
	e, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok {
		return nil
	}
	c, _ := ecs.Get(w, e, component.ClockComponent.Kind())
	return c
}

func fixedDt(w *ecs.World) float64 {
	if c := clockOf(w); c != nil && c.FixedDt > 0 {
		return c.FixedDt
	}
	return defaultDt
}

func frameDt(w *ecs.World) float64 {
	if c := clockOf(w); c != nil && c.FrameDt > 0 {
		return c.FrameDt
	}
	return defaultDt
}

// player returns the first player entity and its input.
func player(w *ecs.World) (ecs.Entity, *component.Input, bool) {
	e, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return e, &component.Input{}, true
	}
	return e, in, true
}

// camera returns the first camera rig and its transform.
func camera(w *ecs.World) (ecs.Entity, *component.CameraRig, *component.Transform, bool) {
	e, ok := ecs.First(w, component.CameraRigComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	rig, _ := ecs.Get(w, e, component.CameraRigComponent.Kind())
	tf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, nil, false
	}
	return e, rig, tf, true
}
