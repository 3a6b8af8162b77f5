package ecs

import "github.com/milk9111/kcc/physics"

// World owns entities and their components.
type World struct {
	entities entityStore
	stores   map[uint32]componentStore
	events   EventQueue

	physicsWorld *physics.World
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[uint32]componentStore)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity frees the entity and drops every component attached to it.
func DestroyEntity(w *World, e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, store := range w.stores {
		store.remove(e)
	}
	return true
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities lists live entities in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches the collision world systems query against.
func (w *World) SetPhysicsWorld(pw *physics.World) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

func (w *World) PhysicsWorld() *physics.World {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
