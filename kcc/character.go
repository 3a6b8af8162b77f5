package kcc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/common"
	"github.com/milk9111/kcc/physics"
)

// Tuning holds the movement constants of a character.
type Tuning struct {
	Radius              float64
	CapsuleLength       float64
	MovementSpeed       float64
	GroundAcceleration  float64
	AirAcceleration     float64
	Friction            float64
	WalkableAngle       float64
	JumpImpulse         float64
	Gravity             float64
	StepHeight          float64
	GroundCheckDistance float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Radius:              0.35,
		CapsuleLength:       1.0,
		MovementSpeed:       8,
		GroundAcceleration:  100,
		AirAcceleration:     40,
		Friction:            60,
		WalkableAngle:       math.Pi / 4,
		JumpImpulse:         6,
		Gravity:             20,
		StepHeight:          0.25,
		GroundCheckDistance: 0.1,
	}
}

// Shape returns the capsule collider described by the tuning.
func (t Tuning) Shape() physics.Shape {
	return physics.Capsule(t.Radius, t.CapsuleLength)
}

type Character struct {
	Velocity       mgl64.Vec3
	Ground         Ground
	PreviousGround Ground
	Up             mgl64.Vec3
	Config         MoveAndSlideConfig
}

func NewCharacter() Character {
	return Character{
		Up:     common.Up,
		Config: DefaultMoveAndSlideConfig(),
	}
}

// Launch adds impulse to the velocity and leaves the ground when launched away from it.
func (c *Character) Launch(impulse mgl64.Vec3) {
	if c.Ground.Valid() && c.Ground.Normal.Dot(impulse) > 0 {
		c.Ground = Ground{}
	}
	c.Velocity = c.Velocity.Add(impulse)
}

// Jump launches along up, cancelling any downward velocity first.
func (c *Character) Jump(impulse float64) {
	down := math.Min(c.Velocity.Dot(c.Up), 0)
	c.Launch(c.Up.Mul(impulse).Add(c.Up.Mul(-down)))
}

func (c *Character) Grounded() bool {
	return c.Ground.Valid()
}

// Acceleration is Quake-style acceleration toward direction, never pushing
// the speed along direction past targetSpeed.
func Acceleration(velocity, direction mgl64.Vec3, maxAcceleration, targetSpeed, dt float64) mgl64.Vec3 {
	dir, _, ok := common.Direction(direction)
	if !ok {
		return mgl64.Vec3{}
	}
	current := velocity.Dot(dir)
	if current >= targetSpeed {
		return mgl64.Vec3{}
	}
	return dir.Mul(math.Min(targetSpeed-current, maxAcceleration*dt))
}

// Friction decelerates velocity at a constant rate of friction units per second.
func Friction(velocity mgl64.Vec3, friction, dt float64) mgl64.Vec3 {
	speedSq := velocity.LenSqr()
	if speedSq < 1e-4 {
		return mgl64.Vec3{}
	}
	factor := math.Exp(-friction / math.Sqrt(speedSq) * dt)
	return velocity.Mul(-(1 - factor))
}
