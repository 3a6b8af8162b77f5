package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/kcc/ecs/component"
)

// Plan is a scripted input sequence for one headless run.
type Plan struct {
	Level string `yaml:"level"`
	Steps []Step `yaml:"steps"`
}

// Step holds the same input for Ticks frames. Jump and Reset fire on the
// first frame of the step.
type Step struct {
	Ticks int        `yaml:"ticks"`
	Move  [2]float64 `yaml:"move"`
	Look  [2]float64 `yaml:"look"`
	Jump  bool       `yaml:"jump"`
	Reset bool       `yaml:"reset"`
}

func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

func ParsePlan(data []byte) (Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	for i, s := range p.Steps {
		if s.Ticks < 0 {
			return Plan{}, fmt.Errorf("plan step %d: ticks must not be negative", i)
		}
	}
	return p, nil
}

// Idle is a plan that stands still for n ticks.
func Idle(n int) Plan {
	return Plan{Steps: []Step{{Ticks: n}}}
}

// Frames expands the plan into one input per tick.
func (p Plan) Frames() []component.Input {
	var frames []component.Input
	for _, s := range p.Steps {
		for i := 0; i < s.Ticks; i++ {
			in := component.Input{
				Move: mgl64.Vec2{s.Move[0], s.Move[1]},
				Look: mgl64.Vec2{s.Look[0], s.Look[1]},
				Jump: s.Jump,
			}
			if i == 0 {
				in.JumpPressed = s.Jump
				in.Reset = s.Reset
			}
			frames = append(frames, in)
		}
	}
	return frames
}

// Fit truncates frames to n, or pads them by holding the last frame without
// its one-shot actions.
func Fit(frames []component.Input, n int) []component.Input {
	if len(frames) >= n {
		return frames[:n]
	}
	var last component.Input
	if len(frames) > 0 {
		last = frames[len(frames)-1].Actions()
	}
	for len(frames) < n {
		frames = append(frames, last)
	}
	return frames
}
