package system

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/kcc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/milk9111/kcc/ecs/system"

// MovementSystem runs the character controller for every character once per
// fixed step.
type MovementSystem struct {
	iterations metric.Int64Counter
	steps      metric.Int64Counter
	landings   metric.Int64Counter
}

func NewMovementSystem() (*MovementSystem, error) {
	m := otel.Meter(meterName)

	iterations, err := m.Int64Counter("kcc.move_and_slide.iterations",
		metric.WithDescription("Move-and-slide sweeps performed by characters"),
	)
	if err != nil {
		return nil, err
	}
	steps, err := m.Int64Counter("kcc.step_ups",
		metric.WithDescription("Steps climbed by characters"),
	)
	if err != nil {
		return nil, err
	}
	landings, err := m.Int64Counter("kcc.landings",
		metric.WithDescription("Times a character touched walkable ground after being airborne"),
	)
	if err != nil {
		return nil, err
	}

	return &MovementSystem{iterations: iterations, steps: steps, landings: landings}, nil
}

func (s *MovementSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	dt := fixedDt(w)

	yaw := 0.0
	if _, rig, _, ok := camera(w); ok {
		yaw = rig.Yaw
	}

	ctx := context.Background()
	ecs.ForEach3(w, component.CharacterComponent.Kind(), component.TransformComponent.Kind(), component.CharacterFilterComponent.Kind(), func(e ecs.Entity, ch *component.Character, tf *component.Transform, filter *component.CharacterFilter) {
		if prev, ok := ecs.Get(w, e, component.PreviousTransformComponent.Kind()); ok {
			*prev = component.PreviousTransform(*tf)
		}
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}

		var move mgl64.Vec2
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			move = in.Move
		}

		ctrl := kcc.Controller{
			Query:  pw,
			Shape:  ch.Tuning.Shape(),
			Filter: filter.QueryFilter,
			Tuning: ch.Tuning,
		}
		sensor := false
		if col, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			ctrl.Shape = col.Shape
			sensor = col.Sensor
		}
		tf.Rotation = common.OrIdentity(tf.Rotation)

		report := ctrl.Move(&ch.Character, tf, MoveDirection(move, yaw), sensor, dt)

		attrs := metric.WithAttributes(attribute.Int64("entity", int64(e)))
		s.iterations.Add(ctx, int64(report.Iterations), attrs)
		events := w.Events()
		if report.Stepped {
			s.steps.Add(ctx, 1, attrs)
			events.Push(ecs.Event{Kind: ecs.EventStepped, Entity: e, Data: tf.Translation})
		}
		if report.Landed {
			s.landings.Add(ctx, 1, attrs)
			events.Push(ecs.Event{Kind: ecs.EventLanded, Entity: e, Data: ch.Ground.Normal})
		}
		if report.LeftGround {
			events.Push(ecs.Event{Kind: ecs.EventLeftGround, Entity: e})
		}
	})
}

// MoveDirection turns a planar move axis into a world direction, rotated by
// the camera yaw only.
func MoveDirection(move mgl64.Vec2, yaw float64) mgl64.Vec3 {
	if move.Len() < common.Float32Epsilon {
		return mgl64.Vec3{}
	}
	local := mgl64.Vec3{move.X(), 0, -move.Y()}
	return common.YawRotation(yaw).Rotate(local)
}
