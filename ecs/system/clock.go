package system

import (
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

// ClockSystem advances the frame counters. The game sets FrameDt before the
// pre-fixed schedule runs.
type ClockSystem struct {
	FrameDt float64
}

func NewClockSystem() *ClockSystem {
	return &ClockSystem{}
}

func (s *ClockSystem) Update(w *ecs.World) {
	c := clockOf(w)
	if c == nil {
		return
	}
	if s.FrameDt > 0 {
		c.FrameDt = s.FrameDt
	}
	c.Frame++
	c.Elapsed += c.FrameDt
}

// TickSystem counts fixed steps.
type TickSystem struct{}

func NewTickSystem() *TickSystem {
	return &TickSystem{}
}

func (s *TickSystem) Update(w *ecs.World) {
	if c := clockOf(w); c != nil {
		c.Ticks++
	}
}

// EnsureClock returns the clock resource, creating it on a new entity when missing.
func EnsureClock(w *ecs.World, fixed float64) *component.Clock {
	if c := clockOf(w); c != nil {
		return c
	}
	e := ecs.CreateEntity(w)
	c := &component.Clock{FixedDt: fixed}
	_ = ecs.Add(w, e, component.ClockComponent.Kind(), c)
	return c
}
