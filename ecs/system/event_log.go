package system

import (
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/entity"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventLogSystem drains the character events of the frame. It runs last.
type EventLogSystem struct {
	Counts map[ecs.EventKind]int
}

func NewEventLogSystem() *EventLogSystem {
	return &EventLogSystem{Counts: map[ecs.EventKind]int{}}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	for _, evt := range w.Events().Drain() {
		s.Counts[evt.Kind]++

		level := zerolog.DebugLevel
		if evt.Kind == ecs.EventRespawned {
			level = zerolog.InfoLevel
			entity.Notify(w, "respawned", noticeFrames)
		}
		ev := log.WithLevel(level).Str("event", string(evt.Kind)).Stringer("entity", evt.Entity)
		if evt.Data != nil {
			ev = ev.Interface("data", evt.Data)
		}
		ev.Msg("character event")
	}
}
