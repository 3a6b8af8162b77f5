package ecs

import (
	"fmt"

	"github.com/milk9111/kcc/ecs/component"
)

func storeFor[T any](w *World, kind component.ComponentKind[T]) (*sparseSet[T], bool) {
	if w == nil || w.stores == nil {
		return nil, false
	}
	store, ok := w.stores[uint32(kind.ID())].(*sparseSet[T])
	return store, ok
}

// Add attaches value to e, replacing any previous component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return fmt.Errorf("ecs: add %s to %s: %w", kind.Name(), e, component.ErrInvalidComponentKind)
	}
	if value == nil {
		return fmt.Errorf("ecs: add %s to %s: %w", kind.Name(), e, component.ErrNilComponent)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("ecs: add %s to %s: %w", kind.Name(), e, component.ErrEntityNotAlive)
	}
	store, ok := storeFor(w, kind)
	if !ok {
		store = &sparseSet[T]{}
		w.stores[uint32(kind.ID())] = store
	}
	store.set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	store, ok := storeFor(w, kind)
	if !ok || !w.entities.isAlive(e) {
		return nil, false
	}
	return store.get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store, ok := storeFor(w, kind)
	return ok && w.entities.isAlive(e) && store.has(e)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	store, ok := storeFor(w, kind)
	return ok && store.remove(e)
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	store, ok := storeFor(w, kind)
	if !ok {
		return 0, false
	}
	for _, e := range store.dense {
		if w.entities.isAlive(e) {
			return e, true
		}
	}
	return 0, false
}

// Count returns how many entities carry kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	store, ok := storeFor(w, kind)
	if !ok {
		return 0
	}
	return store.len()
}

func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	sa, ok := storeFor(w, a)
	if !ok {
		return
	}
	for _, e := range sa.snapshot() {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, okA := storeFor(w, a)
	sb, okB := storeFor(w, b)
	if !okA || !okB {
		return
	}
	for _, e := range smallest(sa, sb).snapshot() {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		vb, ok := Get(w, e, b)
		if !ok {
			continue
		}
		fn(e, va, vb)
	}
}

func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, okA := storeFor(w, a)
	sb, okB := storeFor(w, b)
	sc, okC := storeFor(w, c)
	if !okA || !okB || !okC {
		return
	}
	for _, e := range smallest(sa, sb, sc).snapshot() {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		vb, ok := Get(w, e, b)
		if !ok {
			continue
		}
		vc, ok := Get(w, e, c)
		if !ok {
			continue
		}
		fn(e, va, vb, vc)
	}
}

func ForEach4[A, B, C, D any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], d component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa, okA := storeFor(w, a)
	sb, okB := storeFor(w, b)
	sc, okC := storeFor(w, c)
	sd, okD := storeFor(w, d)
	if !okA || !okB || !okC || !okD {
		return
	}
	for _, e := range smallest(sa, sb, sc, sd).snapshot() {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		vb, ok := Get(w, e, b)
		if !ok {
			continue
		}
		vc, ok := Get(w, e, c)
		if !ok {
			continue
		}
		vd, ok := Get(w, e, d)
		if !ok {
			continue
		}
		fn(e, va, vb, vc, vd)
	}
}

type snapshotter interface {
	componentStore
	snapshot() []Entity
}

// smallest picks the store with the fewest entries to drive an intersection.
func smallest(stores ...snapshotter) snapshotter {
	best := stores[0]
	for _, s := range stores[1:] {
		if s.len() < best.len() {
			best = s
		}
	}
	return best
}
