package entity

import (
	"fmt"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
	"github.com/milk9111/kcc/recording"
)

// NewGhost builds an entity that replays demo.
func NewGhost(w *ecs.World, demo recording.Demo, loop bool) (ecs.Entity, error) {
	if len(demo.Snapshots) == 0 {
		return 0, fmt.Errorf("ghost: demo %s has no snapshots", demo.Name)
	}
	e, err := BuildEntity(w, "ghost.yaml")
	if err != nil {
		return 0, err
	}
	first := demo.Snapshots[0]
	if err := SetEntityTransform(w, e, first.Position, first.Rotation); err != nil {
		return 0, fmt.Errorf("ghost: transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PlaybackComponent.Kind(), &component.Playback{Demo: demo, Loop: loop}); err != nil {
		return 0, fmt.Errorf("ghost: playback: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderStyleComponent.Kind(), &component.RenderStyle{
		Name:  demo.Name,
		Color: ghostColor,
		Index: 9,
	}); err != nil {
		return 0, fmt.Errorf("ghost: render style: %w", err)
	}
	return e, nil
}
