package system

import (
	"math"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

// PlaybackSystem moves ghosts along their demo.
type PlaybackSystem struct{}

func NewPlaybackSystem() *PlaybackSystem {
	return &PlaybackSystem{}
}

func (s *PlaybackSystem) Update(w *ecs.World) {
	dt := frameDt(w)
	ecs.ForEach2(w, component.PlaybackComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Playback, tf *component.Transform) {
		if p.Done {
			return
		}
		p.Time += dt
		if d := p.Demo.Duration(); p.Time > d {
			if p.Loop && d > 0 {
				p.Time = math.Mod(p.Time, d)
			} else {
				p.Time = d
				p.Done = true
			}
		}
		snap, ok := p.Demo.Sample(p.Time)
		if !ok {
			p.Done = true
			return
		}
		tf.Translation = snap.Position
		tf.Rotation = snap.Rotation
	})
}
