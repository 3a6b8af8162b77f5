package entity

import (
	"image/color"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

var (
	characterColor = color.NRGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff}
	ghostColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}
	objectColor    = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// NewResources creates the singleton clock and recorder entities.
func NewResources(w *ecs.World, fixedDt, snapshotInterval float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ClockComponent.Kind(), &component.Clock{FixedDt: fixedDt}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.RecorderComponent.Kind(), &component.Recorder{Interval: snapshotInterval}); err != nil {
		return 0, err
	}
	return e, nil
}

// Notify shows text on the HUD for the given number of frames.
func Notify(w *ecs.World, text string, frames int) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.NoticeComponent.Kind(), &component.Notice{Text: text})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames})
	return e
}
