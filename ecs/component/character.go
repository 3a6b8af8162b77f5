package component

import (
	"github.com/milk9111/kcc/kcc"
	"github.com/milk9111/kcc/physics"
)

// Character is the controller state and tuning of a kinematic character.
type Character struct {
	kcc.Character
	Tuning kcc.Tuning
}

var CharacterComponent = NewComponent[Character]()

// CharacterFilter is the query filter the character moves with, rebuilt
// every frame.
type CharacterFilter struct {
	physics.QueryFilter
}

var CharacterFilterComponent = NewComponent[CharacterFilter]()
