package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/physics"
)

const pitchLimit = math.Pi/2 - 0.01

// CameraSystem orbits the camera rig around the player and runs the fly
// camera. It reads the player's input.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	_, rig, camTf, ok := camera(w)
	if !ok {
		return
	}
	target, in, ok := player(w)
	if !ok {
		return
	}
	dt := frameDt(w)

	if in.ToggleView {
		rig.FirstPerson = !rig.FirstPerson
	}
	if in.ToggleFly {
		rig.Flying = !rig.Flying
		if rig.Flying {
			_ = ecs.Add(w, target, component.FrozenComponent.Kind(), &component.Frozen{})
		} else {
			ecs.Remove(w, target, component.FrozenComponent.Kind())
		}
	}

	Look(rig, in.Look, dt)
	Zoom(rig, in.Zoom)

	view := rig.View()
	camTf.Rotation = view

	if rig.Flying {
		move := mgl64.Vec3{in.Move.X(), in.Fly, -in.Move.Y()}
		camTf.Translation = camTf.Translation.Add(view.Rotate(move).Mul(rig.FlySpeed * dt))
		return
	}

	targetTf, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return
	}
	origin := targetTf.Translation.Add(rig.Offset).Add(view.Rotate(rig.RelativeOffset))
	back := view.Rotate(common.Forward.Mul(-1))

	filter := physics.NewQueryFilter()
	if pw := w.PhysicsWorld(); pw != nil {
		pw.Each(func(id physics.ColliderID, c physics.Collider) {
			if c.Sensor {
				filter.Exclude(id)
			}
		})
		if col, ok := ecs.Get(w, target, component.ColliderComponent.Kind()); ok && col.ID.Valid() {
			filter.Exclude(col.ID)
		}
		rig.Distance = SpringArm(pw, *rig, origin, back, filter, dt)
	} else {
		rig.Distance = SpringArm(nil, *rig, origin, back, filter, dt)
	}
	camTf.Translation = origin.Add(back.Mul(rig.Distance))
}

// Look turns the view by a look delta.
func Look(rig *component.CameraRig, look mgl64.Vec2, dt float64) {
	rig.Yaw -= look.X() * rig.Sensitivity * math.Pi * dt
	rig.Pitch = mgl64.Clamp(rig.Pitch-look.Y()*rig.Sensitivity*math.Pi*dt, -pitchLimit, pitchLimit)
	rig.Yaw = math.Remainder(rig.Yaw, 2*math.Pi)
}

// Zoom pulls the target arm length in by ZoomStep of the current length per
// wheel step.
func Zoom(rig *component.CameraRig, steps float64) {
	if steps == 0 {
		return
	}
	target := rig.TargetDistance - steps*rig.Distance*rig.ZoomStep
	rig.TargetDistance = mgl64.Clamp(target, rig.MinDistance, rig.MaxDistance)
}

// SpringArm returns the arm length for this frame: a probe sphere is cast
// back from origin and the arm snaps to any hit, otherwise it eases out
// toward the target distance.
func SpringArm(q *physics.World, rig component.CameraRig, origin, back mgl64.Vec3, filter physics.QueryFilter, dt float64) float64 {
	t := math.Min(rig.RecoverSpeed*dt, 1)
	if rig.FirstPerson {
		return common.Lerp(rig.Distance, 0, t)
	}

	limit := rig.TargetDistance
	if q != nil && limit > 0 {
		cfg := physics.DefaultShapeCastConfig()
		cfg.MaxDistance = limit
		cfg.IgnoreOriginPenetration = true
		if hit, ok := q.CastShape(physics.Sphere(rig.ProbeRadius), origin, mgl64.QuatIdent(), back, cfg, filter); ok {
			return hit.Distance
		}
	}
	return common.Lerp(rig.Distance, limit, t)
}
