package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/kcc/prefabs"
	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is a static arrangement of colliders plus optional moving platforms.
type Level struct {
	Name    string       `yaml:"name"`
	Spawn   prefabs.Vec3 `yaml:"spawn"`
	KillY   float64      `yaml:"kill_y"`
	Objects []Object     `yaml:"objects"`
}

type Object struct {
	Name      string                `yaml:"name"`
	Shape     prefabs.ShapeSpec     `yaml:"shape"`
	Transform prefabs.TransformSpec `yaml:"transform"`
	Sensor    bool                  `yaml:"sensor"`
	Layers    []string              `yaml:"layers"`
	Color     *prefabs.YAMLColor    `yaml:"color"`
	Platform  *PlatformSpec         `yaml:"platform"`
	Repeat    *RepeatSpec           `yaml:"repeat"`
}

// PlatformSpec moves the object with a tengo script.
type PlatformSpec struct {
	Script string             `yaml:"script"`
	Params map[string]float64 `yaml:"params"`
}

// RepeatSpec stamps Count copies of an object, each shifted by Step.
type RepeatSpec struct {
	Count int          `yaml:"count"`
	Step  prefabs.Vec3 `yaml:"step"`
}

// Expand returns the objects with repeats unrolled.
func (l *Level) Expand() []Object {
	out := make([]Object, 0, len(l.Objects))
	for _, obj := range l.Objects {
		if obj.Repeat == nil || obj.Repeat.Count <= 1 {
			out = append(out, obj)
			continue
		}
		for i := 0; i < obj.Repeat.Count; i++ {
			c := obj
			c.Repeat = nil
			c.Name = fmt.Sprintf("%s_%d", obj.Name, i)
			for k := 0; k < 3; k++ {
				c.Transform.Position[k] += obj.Repeat.Step[k] * float64(i)
			}
			out = append(out, c)
		}
	}
	return out
}

func LoadLevelFromFS(name string) (*Level, error) {
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(name, path.Ext(name))
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}
