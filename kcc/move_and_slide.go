package kcc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/physics"
)

const (
	similarityThreshold = 0.999
	cornerNudge         = 0.01
)

// SpatialQuery is the part of the collision world the controller needs.
type SpatialQuery interface {
	CastShape(shape physics.Shape, origin mgl64.Vec3, rotation mgl64.Quat, dir mgl64.Vec3, cfg physics.ShapeCastConfig, filter physics.QueryFilter) (physics.ShapeHit, bool)
}

type MoveAndSlideConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	SkinWidth     float64 `yaml:"skin_width"`
	Epsilon       float64 `yaml:"epsilon"`
}

func DefaultMoveAndSlideConfig() MoveAndSlideConfig {
	return MoveAndSlideConfig{
		MaxIterations: 4,
		SkinWidth:     0.01,
		Epsilon:       0.0001,
	}
}

// MoveAndSlideHit is handed to the hit callback. The pointers may be written
// to redirect the rest of the move.
type MoveAndSlideHit struct {
	Hit       physics.ShapeHit
	Direction mgl64.Vec3
	// Motion is how far the shape moved this iteration before touching.
	Motion          float64
	RemainingMotion float64
	Velocity        *mgl64.Vec3
	Translation     *mgl64.Vec3
	RemainingTime   *float64
}

type MoveAndSlideResult struct {
	Translation mgl64.Vec3
	Velocity    mgl64.Vec3
	Iterations  int
}

// SweepCheck casts shape along dir and returns how far it can move while
// staying epsilon away from the hit.
func SweepCheck(q SpatialQuery, shape physics.Shape, epsilon float64, origin, dir mgl64.Vec3, distance float64, rotation mgl64.Quat, filter physics.QueryFilter) (float64, physics.ShapeHit, bool) {
	hit, ok := q.CastShape(shape, origin, rotation, dir, physics.ShapeCastConfig{
		MaxDistance:                 distance,
		IgnoreOriginPenetration:     true,
		ComputeContactOnPenetration: true,
	}, filter)
	if !ok {
		return 0, physics.ShapeHit{}, false
	}
	return math.Max(hit.Distance-epsilon, 0), hit, true
}

// MoveAndSlide moves shape by velocity over dt, sliding along everything it
// touches. onHit runs for every contact and returns false to skip sliding on
// that contact.
func MoveAndSlide(q SpatialQuery, shape physics.Shape, translation, velocity mgl64.Vec3, rotation mgl64.Quat, cfg MoveAndSlideConfig, filter physics.QueryFilter, dt float64, onHit func(*MoveAndSlideHit) bool) MoveAndSlideResult {
	originalDir, _, ok := common.Direction(velocity)
	if !ok {
		return MoveAndSlideResult{Translation: translation, Velocity: velocity}
	}

	remaining := dt
	normals := make([]mgl64.Vec3, 0, cfg.MaxIterations)
	iterations := 0

	for i := 0; i < cfg.MaxIterations && remaining > 0; i++ {
		iterations++
		dir, speed, ok := common.Direction(velocity)
		if !ok {
			break
		}
		maxDistance := speed * remaining

		safe, hit, found := SweepCheck(q, shape, cfg.Epsilon, translation, dir, maxDistance+cfg.SkinWidth, rotation, filter)
		if !found {
			translation = translation.Add(velocity.Mul(remaining))
			break
		}

		motion := math.Max(safe-cfg.SkinWidth, 0)
		if maxDistance > 0 {
			remaining *= 1 - mgl64.Clamp(motion/maxDistance, 0, 1)
		}
		translation = translation.Add(dir.Mul(motion))

		if onHit != nil {
			slide := onHit(&MoveAndSlideHit{
				Hit:             hit,
				Direction:       dir,
				Motion:          motion,
				RemainingMotion: speed * remaining,
				Velocity:        &velocity,
				Translation:     &translation,
				RemainingTime:   &remaining,
			})
			if !slide {
				continue
			}
		}

		normals = append(normals, hit.Normal1)
		velocity = SolveCollisionPlanes(velocity, normals, originalDir)

		// Quake2: stop once the velocity turns against the original direction
		// to avoid oscillating in sloped corners.
		if velocity.Dot(originalDir) <= 0 {
			break
		}
	}

	return MoveAndSlideResult{Translation: translation, Velocity: velocity, Iterations: iterations}
}

func similarPlane(a, b mgl64.Vec3) bool {
	return a.Dot(b) > similarityThreshold
}

// SolveCollisionPlanes constrains velocity against every plane touched so far.
// The most recent normal is resolved first, then each remaining plane narrows
// the velocity down to the crease it forms with that normal.
func SolveCollisionPlanes(velocity mgl64.Vec3, normals []mgl64.Vec3, originalDir mgl64.Vec3) mgl64.Vec3 {
	if velocity.LenSqr() <= 0 || originalDir.LenSqr() <= 0 {
		return mgl64.Vec3{}
	}
	if len(normals) == 0 {
		return velocity
	}

	first := normals[len(normals)-1]
	if velocity.Dot(first) >= 0 {
		return velocity
	}

	vel := common.RejectFromNormalized(velocity, first)

	originalNormal := common.NormalizeOrZero(originalDir)
	planes := make([]mgl64.Vec3, 0, len(normals)+1)
	planes = append(planes, originalNormal)
	planes = append(planes, normals...)

	for _, second := range planes {
		if similarPlane(first, second) || similarPlane(originalNormal, second) {
			continue
		}

		vel = common.RejectFromNormalized(vel, second)
		if similarPlane(common.NormalizeOrZero(vel), first) {
			if vel.LenSqr() <= common.Float32Epsilon {
				return vel
			}
			continue
		}

		crease := common.NormalizeOrZero(first.Cross(second))
		proj := common.ProjectOnto(vel, crease)
		projDir := common.NormalizeOrZero(proj)

		for _, third := range planes {
			if !similarPlane(first, third) && !similarPlane(second, third) && similarPlane(projDir, third) {
				nudge := common.NormalizeOrZero(first.Add(second)).Mul(cornerNudge)
				return proj.Add(nudge)
			}
		}
		if proj.LenSqr() <= common.Float32Epsilon {
			return proj
		}
		vel = proj
	}
	return vel
}
