package kcc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/physics"
)

// Ground is the surface a character stands on. The zero value means airborne.
type Ground struct {
	Collider physics.ColliderID
	Normal   mgl64.Vec3
}

func (g Ground) Valid() bool {
	return g.Collider.Valid()
}

// IsWalkable reports whether the angle between normal and up is within walkableAngle.
func IsWalkable(normal, up mgl64.Vec3, walkableAngle float64) bool {
	n := common.NormalizeOrZero(normal)
	u := common.NormalizeOrZero(up)
	if n.LenSqr() == 0 || u.LenSqr() == 0 {
		return false
	}
	return math.Acos(mgl64.Clamp(n.Dot(u), -1, 1)) <= walkableAngle
}

func NewGroundIfWalkable(collider physics.ColliderID, normal, up mgl64.Vec3, walkableAngle float64) (Ground, bool) {
	if !IsWalkable(normal, up, walkableAngle) {
		return Ground{}, false
	}
	return Ground{Collider: collider, Normal: normal}, true
}

// GroundCheck looks for walkable ground within distance below translation.
// The returned snap distance keeps the skin width between shape and ground.
func GroundCheck(q SpatialQuery, shape physics.Shape, cfg MoveAndSlideConfig, translation, up mgl64.Vec3, rotation mgl64.Quat, filter physics.QueryFilter, distance, walkableAngle float64) (float64, Ground, bool) {
	safe, hit, ok := SweepCheck(q, shape, cfg.Epsilon, translation, up.Mul(-1), distance+cfg.SkinWidth, rotation, filter)
	if !ok {
		return 0, Ground{}, false
	}
	ground, ok := NewGroundIfWalkable(hit.Collider, hit.Normal1, up, walkableAngle)
	if !ok {
		return 0, Ground{}, false
	}
	return math.Max(safe-cfg.SkinWidth, 0), ground, true
}

// ProjectMotionOnGround redirects the horizontal part of motion along the
// ground plane, keeping its heading and magnitude.
func ProjectMotionOnGround(motion, normal, up mgl64.Vec3) mgl64.Vec3 {
	horizontal := common.RejectFromNormalized(motion, up)
	length := horizontal.Len()
	if length == 0 {
		return mgl64.Vec3{}
	}
	upDot := up.Dot(normal)
	if math.Abs(upDot) < common.Float32Epsilon {
		return common.RejectFrom(motion, normal)
	}
	onPlane := horizontal.Sub(up.Mul(horizontal.Dot(normal) / upDot))
	return common.NormalizeOrZero(onPlane).Mul(length)
}

// ProjectMotionOnWall removes the horizontal part of motion that points
// into the wall. Vertical motion is kept so walls are never climbed.
func ProjectMotionOnWall(motion, normal, up mgl64.Vec3) mgl64.Vec3 {
	horizontal := common.NormalizeOrZero(common.RejectFromNormalized(normal, up))
	if horizontal.LenSqr() == 0 {
		return common.RejectFrom(motion, normal)
	}
	into := motion.Dot(horizontal)
	if into >= 0 {
		return motion
	}
	return motion.Sub(horizontal.Mul(into))
}

type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// MotionOnPoint returns how far point moves when carried rigidly from previous to current.
func MotionOnPoint(point mgl64.Vec3, current, previous Transform) mgl64.Vec3 {
	local := common.InverseRotate(common.OrIdentity(previous.Rotation), point.Sub(previous.Translation))
	moved := current.Translation.Add(common.OrIdentity(current.Rotation).Rotate(local))
	return moved.Sub(point)
}
