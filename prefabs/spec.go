package prefabs

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/kcc"
	"github.com/milk9111/kcc/physics"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3 is a YAML triple.
type Vec3 [3]float64

func (v Vec3) Vec() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

// TransformSpec places an entity. Rotation is Euler angles in degrees,
// applied yaw (Y), then pitch (X), then roll (Z).
type TransformSpec struct {
	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
}

func (t TransformSpec) Transform() kcc.Transform {
	return kcc.Transform{
		Translation: t.Position.Vec(),
		Rotation:    EulerDegrees(t.Rotation),
	}
}

// EulerDegrees builds a rotation from pitch, yaw and roll in degrees.
func EulerDegrees(r Vec3) mgl64.Quat {
	if r == (Vec3{}) {
		return mgl64.QuatIdent()
	}
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r[1]), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(r[0]), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(r[2]), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// ShapeSpec describes a collider shape.
type ShapeSpec struct {
	Kind        string  `yaml:"kind"`
	Radius      float64 `yaml:"radius"`
	Length      float64 `yaml:"length"`
	HalfExtents Vec3    `yaml:"half_extents"`
	Points      []Vec3  `yaml:"points"`
}

func (s ShapeSpec) Shape() (physics.Shape, error) {
	positive := func(vs ...float64) bool {
		for _, v := range vs {
			if !(v > 0) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	h := s.HalfExtents

	switch strings.ToLower(s.Kind) {
	case "sphere", "ball":
		if !positive(s.Radius) {
			return physics.Shape{}, fmt.Errorf("prefabs: sphere radius must be positive, got %v", s.Radius)
		}
		return physics.Sphere(s.Radius), nil
	case "capsule":
		if !positive(s.Radius, s.Length) {
			return physics.Shape{}, fmt.Errorf("prefabs: capsule needs positive radius and length")
		}
		return physics.Capsule(s.Radius, s.Length), nil
	case "cuboid", "box":
		if !positive(h[0], h[1], h[2]) {
			return physics.Shape{}, fmt.Errorf("prefabs: cuboid half extents must be positive, got %v", h)
		}
		return physics.Cuboid(h[0], h[1], h[2]), nil
	case "ramp", "wedge":
		if !positive(h[0], h[1], h[2]) {
			return physics.Shape{}, fmt.Errorf("prefabs: ramp half extents must be positive, got %v", h)
		}
		return physics.Ramp(h[0], h[1], h[2]), nil
	case "hull":
		if len(s.Points) < 4 {
			return physics.Shape{}, fmt.Errorf("prefabs: hull needs at least 4 points, got %d", len(s.Points))
		}
		pts := make([]mgl64.Vec3, len(s.Points))
		for i, p := range s.Points {
			pts[i] = p.Vec()
		}
		return physics.ConvexHull(pts...), nil
	default:
		return physics.Shape{}, fmt.Errorf("prefabs: unknown shape kind %q", s.Kind)
	}
}

// TuningSpec is the YAML form of kcc.Tuning with angles in degrees.
type TuningSpec struct {
	Radius              float64 `yaml:"radius"`
	CapsuleLength       float64 `yaml:"capsule_length"`
	MovementSpeed       float64 `yaml:"movement_speed"`
	GroundAcceleration  float64 `yaml:"ground_acceleration"`
	AirAcceleration     float64 `yaml:"air_acceleration"`
	Friction            float64 `yaml:"friction"`
	WalkableAngle       float64 `yaml:"walkable_angle_degrees"`
	JumpImpulse         float64 `yaml:"jump_impulse"`
	Gravity             float64 `yaml:"gravity"`
	StepHeight          float64 `yaml:"step_height"`
	GroundCheckDistance float64 `yaml:"ground_check_distance"`

	MoveAndSlide kcc.MoveAndSlideConfig `yaml:"move_and_slide"`
}

// DefaultTuningSpec mirrors kcc.DefaultTuning so unspecified fields keep
// their defaults when a spec is decoded on top of it.
func DefaultTuningSpec() TuningSpec {
	t := kcc.DefaultTuning()
	return TuningSpec{
		Radius:              t.Radius,
		CapsuleLength:       t.CapsuleLength,
		MovementSpeed:       t.MovementSpeed,
		GroundAcceleration:  t.GroundAcceleration,
		AirAcceleration:     t.AirAcceleration,
		Friction:            t.Friction,
		WalkableAngle:       mgl64.RadToDeg(t.WalkableAngle),
		JumpImpulse:         t.JumpImpulse,
		Gravity:             t.Gravity,
		StepHeight:          t.StepHeight,
		GroundCheckDistance: t.GroundCheckDistance,
		MoveAndSlide:        kcc.DefaultMoveAndSlideConfig(),
	}
}

func (s TuningSpec) Tuning() (kcc.Tuning, error) {
	if s.Radius <= 0 || s.CapsuleLength < 0 {
		return kcc.Tuning{}, fmt.Errorf("prefabs: invalid capsule radius=%v length=%v", s.Radius, s.CapsuleLength)
	}
	if s.WalkableAngle <= 0 || s.WalkableAngle >= 90 {
		return kcc.Tuning{}, fmt.Errorf("prefabs: walkable angle must be in (0, 90) degrees, got %v", s.WalkableAngle)
	}
	if s.MoveAndSlide.MaxIterations <= 0 {
		return kcc.Tuning{}, fmt.Errorf("prefabs: move_and_slide.max_iterations must be positive")
	}
	return kcc.Tuning{
		Radius:              s.Radius,
		CapsuleLength:       s.CapsuleLength,
		MovementSpeed:       s.MovementSpeed,
		GroundAcceleration:  s.GroundAcceleration,
		AirAcceleration:     s.AirAcceleration,
		Friction:            s.Friction,
		WalkableAngle:       mgl64.DegToRad(s.WalkableAngle),
		JumpImpulse:         s.JumpImpulse,
		Gravity:             s.Gravity,
		StepHeight:          s.StepHeight,
		GroundCheckDistance: s.GroundCheckDistance,
	}, nil
}

type YAMLColor struct {
	color.Color
}

// NRGBA returns the color, or fallback when unset.
func (c *YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	raw, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %s: %w", value.Value, err)
	}
	if len(s) == 6 {
		raw = raw<<8 | 0xff
	}

	c.Color = color.NRGBA{R: uint8(raw >> 24), G: uint8(raw >> 16), B: uint8(raw >> 8), A: uint8(raw)}
	return nil
}
