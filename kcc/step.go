package kcc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/physics"
)

// stepAngleMargin keeps surfaces sitting right at the walkable angle from
// counting as steps.
const stepAngleMargin = 1e-4

type StepResult struct {
	Translation mgl64.Vec3
	MoveTime    float64
	Ground      Ground
}

// TryClimbStep lifts the shape by stepHeight, moves it by stepMotion and drops
// it back down. It fails when nothing is found below or the landing is not
// higher than where it started.
func TryClimbStep(q SpatialQuery, shape physics.Shape, translation, stepMotion mgl64.Vec3, rotation mgl64.Quat, up mgl64.Vec3, stepHeight, epsilon float64, filter physics.QueryFilter) (mgl64.Vec3, physics.ShapeHit, bool) {
	rise := stepHeight
	if safe, _, hit := SweepCheck(q, shape, epsilon, translation, up, stepHeight, rotation, filter); hit {
		rise = safe
	}
	pos := translation.Add(up.Mul(rise))

	if dir, distance, ok := common.Direction(stepMotion); ok {
		forward := distance
		if safe, _, hit := SweepCheck(q, shape, epsilon, pos, dir, distance, rotation, filter); hit {
			forward = safe
		}
		pos = pos.Add(dir.Mul(forward))
	}

	drop, hit, ok := SweepCheck(q, shape, epsilon, pos, up.Mul(-1), stepHeight, rotation, filter)
	if !ok {
		return mgl64.Vec3{}, physics.ShapeHit{}, false
	}
	pos = pos.Sub(up.Mul(drop))

	if pos.Sub(translation).Dot(up) <= epsilon {
		return mgl64.Vec3{}, physics.ShapeHit{}, false
	}
	return pos, hit, true
}

// TryStepUpOnHit attempts to climb onto whatever blocked the character.
// The shape is nudged into the hit by the distance a rounded bottom of the
// given radius needs to rest on the ledge at the walkable angle.
func TryStepUpOnHit(q SpatialQuery, shape physics.Shape, radius float64, translation mgl64.Vec3, rotation mgl64.Quat, up, hitNormal, dir mgl64.Vec3, stepForward, epsilon float64, filter physics.QueryFilter, dt float64, tuning Tuning) (StepResult, bool) {
	horizontal := common.NormalizeOrZero(common.RejectFromNormalized(hitNormal, up))

	inward := radius*(1-math.Cos(tuning.WalkableAngle)) + epsilon*math.Pi
	forward := math.Max(stepForward-inward, 0)
	motion := dir.Mul(forward).Sub(horizontal.Mul(inward))

	pos, hit, ok := TryClimbStep(q, shape, translation, motion, rotation, up, tuning.StepHeight+tuning.GroundCheckDistance, epsilon, filter)
	if !ok {
		return StepResult{}, false
	}

	ground, ok := NewGroundIfWalkable(hit.Collider, hit.Normal1, up, tuning.WalkableAngle-stepAngleMargin)
	if !ok {
		return StepResult{}, false
	}

	return StepResult{
		Translation: pos,
		MoveTime:    (forward + inward) * dt,
		Ground:      ground,
	}, true
}
