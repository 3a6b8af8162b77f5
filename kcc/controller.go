package kcc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/physics"
)

// Controller moves one character per call against a spatial query.
type Controller struct {
	Query  SpatialQuery
	Shape  physics.Shape
	Filter physics.QueryFilter
	Tuning Tuning
}

// MoveReport summarizes what happened during a Move.
type MoveReport struct {
	Iterations int
	Stepped    bool
	Landed     bool
	LeftGround bool
}

// PlatformMotion returns how far point moved with the collider since the last step.
type PlatformMotion func(collider physics.ColliderID, point mgl64.Vec3) mgl64.Vec3

// Move advances the character by one step of dt. direction is the desired
// movement direction in world space.
func (c Controller) Move(ch *Character, tf *Transform, direction mgl64.Vec3, sensor bool, dt float64) MoveReport {
	var report MoveReport
	tuning := c.Tuning
	wasGrounded := ch.Grounded()

	maxAccel := tuning.AirAcceleration
	if wasGrounded {
		ch.Velocity = ch.Velocity.Add(Friction(ch.Velocity, tuning.Friction, dt))
		maxAccel = tuning.GroundAcceleration
	} else {
		ch.Velocity = ch.Velocity.Add(ch.Up.Mul(-tuning.Gravity * dt))
	}

	accel := Acceleration(ch.Velocity, direction, maxAccel, tuning.MovementSpeed, dt)

	// Sensors fly through everything.
	if sensor {
		ch.Velocity = ch.Velocity.Add(accel)
		tf.Translation = tf.Translation.Add(ch.Velocity.Mul(dt))
		return report
	}

	var newGround Ground
	if wasGrounded {
		accel = ProjectMotionOnGround(accel, ch.Ground.Normal, ch.Up)
	}

	// Acceleration is resolved against what lies ahead before sliding,
	// otherwise it sticks to walls instead of sliding down them.
	if dir, distance, ok := common.Direction(accel.Mul(dt)); ok {
		if safe, hit, ok := SweepCheck(c.Query, c.Shape, ch.Config.Epsilon, tf.Translation, dir, distance, tf.Rotation, c.Filter); ok {
			tf.Translation = tf.Translation.Add(dir.Mul(safe))

			if ground, ok := NewGroundIfWalkable(hit.Collider, hit.Normal1, ch.Up, tuning.WalkableAngle); ok {
				newGround = ground
				accel = ProjectMotionOnGround(accel, hit.Normal1, ch.Up)
			} else if step, ok := TryStepUpOnHit(c.Query, c.Shape, tuning.Radius, tf.Translation, tf.Rotation, ch.Up, hit.Normal1, dir, distance-safe, ch.Config.Epsilon, c.Filter, dt, tuning); ok {
				newGround = step.Ground
				tf.Translation = step.Translation
				report.Stepped = true
			} else {
				accel = ProjectMotionOnWall(accel, hit.Normal1, ch.Up)
			}
		}
	}

	ch.Velocity = ch.Velocity.Add(accel)

	result := MoveAndSlide(c.Query, c.Shape, tf.Translation, ch.Velocity, tf.Rotation, ch.Config, c.Filter, dt, func(hit *MoveAndSlideHit) bool {
		normal := hit.Hit.Normal1

		if ground, ok := NewGroundIfWalkable(hit.Hit.Collider, normal, ch.Up, tuning.WalkableAngle); ok {
			newGround = ground
			// Landing keeps the horizontal speed instead of sliding down the slope.
			if !ch.Grounded() {
				*hit.Velocity = ProjectMotionOnGround(*hit.Velocity, normal, ch.Up)
				ch.Velocity = ProjectMotionOnGround(ch.Velocity, normal, ch.Up)
			}
			return true
		}

		grounded := ch.Grounded() || newGround.Valid()
		if grounded {
			if step, ok := TryStepUpOnHit(c.Query, c.Shape, tuning.Radius, *hit.Translation, tf.Rotation, ch.Up, normal, hit.Direction, hit.RemainingMotion, ch.Config.Epsilon, c.Filter, dt, tuning); ok {
				newGround = step.Ground
				*hit.RemainingTime = math.Max(*hit.RemainingTime-step.MoveTime, 0)
				*hit.Translation = step.Translation
				report.Stepped = true
				return false
			}
			ch.Velocity = ProjectMotionOnWall(ch.Velocity, normal, ch.Up)
			*hit.Velocity = ProjectMotionOnWall(*hit.Velocity, normal, ch.Up)
		} else {
			ch.Velocity = common.RejectFrom(ch.Velocity, normal)
		}
		return true
	})
	tf.Translation = result.Translation
	report.Iterations = result.Iterations

	if wasGrounded {
		if snap, ground, ok := GroundCheck(c.Query, c.Shape, ch.Config, tf.Translation, ch.Up, tf.Rotation, c.Filter, tuning.GroundCheckDistance, tuning.WalkableAngle); ok {
			tf.Translation = tf.Translation.Sub(ch.Up.Mul(snap))
			newGround = ground
		}
	}

	report.Landed = !wasGrounded && newGround.Valid()
	report.LeftGround = wasGrounded && !newGround.Valid()
	ch.Ground = newGround
	return report
}

// FollowPlatform carries a grounded character along with its ground, or hands
// the ground's velocity to a character that just left it.
func (c Controller) FollowPlatform(ch *Character, tf *Transform, motion PlatformMotion, dt float64) {
	switch {
	case ch.Ground.Valid():
		m := motion(ch.Ground.Collider, tf.Translation)
		if dir, distance, ok := common.Direction(m); ok {
			safe := distance
			if d, _, hit := SweepCheck(c.Query, c.Shape, ch.Config.Epsilon, tf.Translation, dir, distance, tf.Rotation, c.Filter); hit {
				safe = d
			}
			tf.Translation = tf.Translation.Add(dir.Mul(safe))
		}
	case ch.PreviousGround.Valid() && dt > 0:
		m := motion(ch.PreviousGround.Collider, tf.Translation)
		ch.Velocity = ch.Velocity.Add(m.Mul(1 / dt))
	}
	ch.PreviousGround = ch.Ground
}
