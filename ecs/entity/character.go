package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kcc/ecs"
	"github.com/milk9111/kcc/ecs/component"
)

const characterPrefab = "character.yaml"

func NewCharacter(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, characterPrefab)
}

// NewCharacterAt builds the character prefab and places it at position.
func NewCharacterAt(w *ecs.World, position mgl64.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, characterPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, position, mgl64.QuatIdent()); err != nil {
		return 0, fmt.Errorf("character: override transform: %w", err)
	}
	prev := component.PreviousTransform{Translation: position, Rotation: mgl64.QuatIdent()}
	if err := ecs.Add(w, e, component.PreviousTransformComponent.Kind(), &prev); err != nil {
		return 0, fmt.Errorf("character: previous transform: %w", err)
	}
	if err := ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{Position: position, Initialized: true}); err != nil {
		return 0, fmt.Errorf("character: safe respawn: %w", err)
	}
	if err := ecs.Add(w, e, component.RenderStyleComponent.Kind(), &component.RenderStyle{
		Name:  "character",
		Color: characterColor,
		Index: 10,
	}); err != nil {
		return 0, fmt.Errorf("character: render style: %w", err)
	}
	return e, nil
}
