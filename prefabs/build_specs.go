package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/kcc/physics"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by
// component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec decodes raw on top of base, so fields missing from
// raw keep base's values.
func DecodeComponentSpec[T any](raw any, base T) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}

type ColliderComponentSpec struct {
	Shape  ShapeSpec `yaml:"shape"`
	Sensor bool      `yaml:"sensor"`
}

// CollisionLayerComponentSpec lists layer names; an empty list means all.
type CollisionLayerComponentSpec struct {
	Memberships []string `yaml:"memberships"`
	Filters     []string `yaml:"filters"`
}

var layerNames = map[string]uint{
	"default":   physics.LayerDefault,
	"character": physics.LayerCharacter,
	"platform":  physics.LayerPlatform,
	"sensor":    physics.LayerSensor,
	"all":       physics.AllMask,
}

// LayerMask ORs the named layers together. An empty list yields 0.
func LayerMask(names []string) (uint, error) {
	var mask uint
	for _, name := range names {
		bit, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("prefabs: unknown layer %q", name)
		}
		mask |= bit
	}
	return mask, nil
}

type CameraRigComponentSpec struct {
	Sensitivity    float64 `yaml:"sensitivity"`
	Offset         Vec3    `yaml:"offset"`
	RelativeOffset Vec3    `yaml:"relative_offset"`
	Distance       float64 `yaml:"distance"`
	MinDistance    float64 `yaml:"min_distance"`
	MaxDistance    float64 `yaml:"max_distance"`
	ZoomStep       float64 `yaml:"zoom_step"`
	RecoverSpeed   float64 `yaml:"recover_speed"`
	ProbeRadius    float64 `yaml:"probe_radius"`
	FlySpeed       float64 `yaml:"fly_speed"`
	FirstPerson    bool    `yaml:"first_person"`
	PitchDegrees   float64 `yaml:"pitch_degrees"`
}

func DefaultCameraRigSpec() CameraRigComponentSpec {
	return CameraRigComponentSpec{
		Sensitivity:  0.1,
		Offset:       Vec3{0, 0.5, 0},
		Distance:     5,
		MinDistance:  0.1,
		MaxDistance:  100,
		ZoomStep:     0.1,
		RecoverSpeed: 6,
		ProbeRadius:  0.1,
		FlySpeed:     10,
		PitchDegrees: -20,
	}
}
