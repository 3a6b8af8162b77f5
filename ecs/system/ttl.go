package system

import (
	"github.com/rs/zerolog/log"

	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

// TTLSystem expires HUD notices and any other entity with a frame TTL.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Frames > 1 {
			ttl.Frames--
			return
		}
		if n, ok := ecs.Get(w, e, component.NoticeComponent.Kind()); ok {
			log.Trace().Str("notice", n.Text).Msg("notice expired")
		}
		ecs.DestroyEntity(w, e)
	})
}
