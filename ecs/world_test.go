package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/kcc/ecs/component"
)

func ptr[T any](v T) *T {
	return &v
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name    string
		create  int
		destroy []int
		alive   int
	}{
		{"single", 1, []int{0}, 0},
		{"destroy_middle", 3, []int{1}, 2},
		{"destroy_none", 2, nil, 2},
		{"destroy_twice", 2, []int{0, 0}, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			destroyed := map[int]bool{}
			for _, idx := range c.destroy {
				got := DestroyEntity(w, ents[idx])
				if got == destroyed[idx] {
					t.Fatalf("DestroyEntity(%d) = %v on second call %v", idx, got, destroyed[idx])
				}
				destroyed[idx] = true
				if IsAlive(w, ents[idx]) {
					t.Fatalf("entity %s still alive after destroy", ents[idx])
				}
			}
			if n := len(Entities(w)); n != c.alive {
				t.Fatalf("expected %d live entities, got %d", c.alive, n)
			}
		})
	}
}

func TestEntityReuseBumpsGeneration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, ptr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id %d to be reused, got %d", old.id(), reused.id())
	}
	if reused == old {
		t.Fatal("reused entity must differ from the stale handle")
	}
	if Has(w, reused, kind) {
		t.Fatal("components must not survive destroy")
	}
	if err := Add(w, old, kind, ptr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	cases := []struct {
		name string
		err  error
		add  func() error
	}{
		{"invalid_kind", component.ErrInvalidComponentKind, func() error {
			return Add(w, e, component.ComponentKind[int]{}, ptr(1))
		}},
		{"nil_value", component.ErrNilComponent, func() error {
			return Add(w, e, component.NewComponentKind[int](), nil)
		}},
		{"dead_entity", component.ErrEntityNotAlive, func() error {
			return Add(w, Entity(0), component.NewComponentKind[int](), ptr(1))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.add(); !errors.Is(err, c.err) {
				t.Fatalf("expected %v, got %v", c.err, err)
			}
		})
	}
}

func TestComponentRoundTrip(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	if err := Add(w, e1, ints.Kind(), ptr(10)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e2, strs.Kind(), ptr("b")); err != nil {
		t.Fatal(err)
	}

	if v, ok := Get(w, e1, ints.Kind()); !ok || *v != 10 {
		t.Fatalf("expected 10, got %v ok=%v", v, ok)
	}
	if Has(w, e2, ints.Kind()) {
		t.Fatal("e2 should not have an int")
	}

	if err := Add(w, e1, ints.Kind(), ptr(11)); err != nil {
		t.Fatal(err)
	}
	if v, _ := Get(w, e1, ints.Kind()); *v != 11 {
		t.Fatalf("expected replacement value 11, got %d", *v)
	}
	if Count(w, ints.Kind()) != 1 {
		t.Fatalf("replacing must not grow the store")
	}

	if !Remove(w, e1, ints.Kind()) {
		t.Fatal("remove should succeed")
	}
	if Remove(w, e1, ints.Kind()) {
		t.Fatal("second remove should fail")
	}
	if _, ok := First(w, ints.Kind()); ok {
		t.Fatal("First on an empty store should fail")
	}
	if got, ok := First(w, strs.Kind()); !ok || got != e2 {
		t.Fatalf("First(strs) = %v %v, want %v", got, ok, e2)
	}
}

func TestForEachQueries(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	// e1 has a; e2 a,b; e3 a,b,c; e4 a,b,c,d
	ents := make([]Entity, 4)
	kinds := []component.ComponentKind[int]{ka, kb, kc, kd}
	for i := range ents {
		ents[i] = CreateEntity(w)
		for k := 0; k <= i; k++ {
			if err := Add(w, ents[i], kinds[k], ptr(i*10+k)); err != nil {
				t.Fatal(err)
			}
		}
	}

	count := func(run func(visit func(Entity))) int {
		n := 0
		run(func(Entity) { n++ })
		return n
	}

	cases := []struct {
		name string
		want int
		run  func(visit func(Entity))
	}{
		{"one", 4, func(visit func(Entity)) {
			ForEach(w, ka, func(e Entity, _ *int) { visit(e) })
		}},
		{"two", 3, func(visit func(Entity)) {
			ForEach2(w, ka, kb, func(e Entity, _, _ *int) { visit(e) })
		}},
		{"three", 2, func(visit func(Entity)) {
			ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { visit(e) })
		}},
		{"four", 1, func(visit func(Entity)) {
			ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { visit(e) })
		}},
		{"missing_store", 0, func(visit func(Entity)) {
			ForEach2(w, ka, component.NewComponentKind[string](), func(e Entity, _ *int, _ *string) { visit(e) })
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := count(c.run); got != c.want {
				t.Fatalf("expected %d matches, got %d", c.want, got)
			}
		})
	}

	t.Run("destroy_during_iteration", func(t *testing.T) {
		visited := 0
		ForEach(w, ka, func(e Entity, _ *int) {
			visited++
			DestroyEntity(w, ents[3])
		})
		if visited != 3 {
			t.Fatalf("expected destroyed entity to be skipped, visited %d", visited)
		}
	})
}

type recordingSystem struct {
	name  string
	log   *[]string
	drawn bool
}

func (s *recordingSystem) Update(*World) {
	*s.log = append(*s.log, s.name)
}

func TestSchedulerRunsInOrder(t *testing.T) {
	var log []string
	s := NewScheduler(&recordingSystem{name: "a", log: &log})
	s.Add(&recordingSystem{name: "b", log: &log})
	s.Add(nil)
	s.Add(SystemFunc(func(*World) { log = append(log, "c") }))

	s.Update(NewWorld())

	want := []string{"a", "b", "c"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
	if len(s.Systems()) != 3 {
		t.Fatalf("expected 3 systems, got %d", len(s.Systems()))
	}
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	q := w.Events()

	q.Push(Event{Kind: EventLanded, Entity: e})
	q.Push(Event{Kind: EventJumped, Entity: e, Data: 6.0})
	if q.Len() != 2 || len(q.Peek()) != 2 {
		t.Fatalf("expected 2 pending events, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0].Kind != EventLanded || got[1].Kind != EventJumped {
		t.Fatalf("unexpected drain order %v", got)
	}
	if q.Drain() != nil {
		t.Fatal("queue should be empty after drain")
	}

	q.Push(Event{Kind: EventStepped})
	q.Flush()
	if q.Len() != 0 {
		t.Fatal("flush should drop pending events")
	}

	var nilQueue *EventQueue
	nilQueue.Push(Event{})
	if nilQueue.Len() != 0 {
		t.Fatal("nil queue should ignore pushes")
	}
}
