package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Float32Epsilon matches the machine epsilon of a 32-bit float. Tolerances in
// the controller were tuned against single precision math.
const Float32Epsilon = 1.1920929e-07

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, -1}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec3 interpolates between two vectors.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// NormalizeOrZero returns the unit vector of v, or the zero vector when v has
// no usable length.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	n := v.Mul(1 / l)
	if !IsFinite(n) {
		return mgl64.Vec3{}
	}
	return n
}

// Direction splits v into a unit direction and its length. ok is false for a
// zero or non-finite vector.
func Direction(v mgl64.Vec3) (dir mgl64.Vec3, length float64, ok bool) {
	length = v.Len()
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return mgl64.Vec3{}, 0, false
	}
	dir = v.Mul(1 / length)
	if !IsFinite(dir) {
		return mgl64.Vec3{}, 0, false
	}
	return dir, length, true
}

// RejectFromNormalized removes the component of v along the unit vector n.
func RejectFromNormalized(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// RejectFrom removes the component of v along n. n does not need to be unit length.
func RejectFrom(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(ProjectOnto(v, n))
}

// ProjectOnto projects v onto n. A zero n yields the zero vector.
func ProjectOnto(v, n mgl64.Vec3) mgl64.Vec3 {
	lsq := n.LenSqr()
	if lsq == 0 {
		return mgl64.Vec3{}
	}
	return n.Mul(v.Dot(n) / lsq)
}

// ProjectOntoNormalized projects v onto the unit vector n.
func ProjectOntoNormalized(v, n mgl64.Vec3) mgl64.Vec3 {
	return n.Mul(v.Dot(n))
}

// Yaw extracts the rotation around the Y axis from q (YXZ euler order).
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(mgl64.Vec3{0, 0, 1})
	return math.Atan2(f.X(), f.Z())
}

// YawRotation returns a quaternion rotating yaw radians around the Y axis.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// InverseRotate rotates v by the inverse of the unit quaternion q.
func InverseRotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Conjugate().Rotate(v)
}

// OrIdentity returns q normalized, or the identity for a zero quaternion.
func OrIdentity(q mgl64.Quat) mgl64.Quat {
	if q.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
