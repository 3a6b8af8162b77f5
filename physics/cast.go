package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	maxCastIterations = 64
	castGapTolerance  = 1e-6
	castClosingEps    = 1e-9
)

type ShapeCastConfig struct {
	MaxDistance    float64
	TargetDistance float64
	// IgnoreOriginPenetration skips colliders the shape already penetrates
	// at the origin unless it is moving further into them.
	IgnoreOriginPenetration bool
	// ComputeContactOnPenetration fills the normal of hits reported at the
	// origin when the cores overlap.
	ComputeContactOnPenetration bool
}

func DefaultShapeCastConfig() ShapeCastConfig {
	return ShapeCastConfig{MaxDistance: math.Inf(1), ComputeContactOnPenetration: true}
}

// ShapeHit describes the first contact of a shape cast. Point1 and Normal1
// lie on the hit collider with the normal pointing toward the cast shape;
// Point2 and Normal2 lie on the cast shape.
type ShapeHit struct {
	Collider ColliderID
	UserData any
	Distance float64
	Point1   mgl64.Vec3
	Normal1  mgl64.Vec3
	Point2   mgl64.Vec3
	Normal2  mgl64.Vec3
}

// castAgainst advances shape along dir until it touches target using
// conservative advancement over the GJK distance.
func castAgainst(shape Shape, origin mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3, maxDist float64, cfg ShapeCastConfig, target *Collider) (ShapeHit, bool) {
	t := 0.0
	for i := 0; i < maxCastIterations; i++ {
		pos := origin.Add(dir.Mul(t))
		prox := ClosestPoints(shape, pos, rot, target.Shape, target.Position, target.Rotation)

		if prox.Overlap {
			if i == 0 && cfg.IgnoreOriginPenetration {
				return ShapeHit{}, false
			}
			var normal mgl64.Vec3
			if cfg.ComputeContactOnPenetration || i > 0 {
				normal = dir.Mul(-1)
			}
			return newHit(t, prox.PointB, normal, prox.PointA), true
		}

		gap := prox.Distance - cfg.TargetDistance
		closing := -dir.Dot(prox.Normal)

		if i == 0 && gap < 0 {
			if cfg.IgnoreOriginPenetration && closing <= castClosingEps {
				return ShapeHit{}, false
			}
			return newHit(0, prox.PointB, prox.Normal, prox.PointA), true
		}
		if gap <= castGapTolerance {
			return newHit(t, prox.PointB, prox.Normal, prox.PointA), true
		}
		if closing <= castClosingEps {
			return ShapeHit{}, false
		}

		t += gap / closing
		if t > maxDist {
			return ShapeHit{}, false
		}
	}
	return ShapeHit{}, false
}

func newHit(distance float64, point1, normal1, point2 mgl64.Vec3) ShapeHit {
	return ShapeHit{
		Distance: distance,
		Point1:   point1,
		Normal1:  normal1,
		Point2:   point2,
		Normal2:  normal1.Mul(-1),
	}
}
