package system

import (
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

// CharacterActionSystem handles the one-shot character actions once per
// frame, before any fixed step runs.
type CharacterActionSystem struct{}

func NewCharacterActionSystem() *CharacterActionSystem {
	return &CharacterActionSystem{}
}

func (s *CharacterActionSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, ch *component.Character, in *component.Input) {
		if in.Reset {
			_ = ecs.Add(w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
		}
		if ecs.Has(w, e, component.FrozenComponent.Kind()) {
			return
		}
		if in.JumpPressed && ch.Grounded() {
			ch.Jump(ch.Tuning.JumpImpulse)
			w.Events().Push(ecs.Event{Kind: ecs.EventJumped, Entity: e, Data: ch.Tuning.JumpImpulse})
		}
	})
}
