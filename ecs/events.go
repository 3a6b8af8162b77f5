package ecs

// EventKind identifies character events.
type EventKind string

const (
	EventLanded     EventKind = "landed"
	EventLeftGround EventKind = "left_ground"
	EventStepped    EventKind = "stepped"
	EventJumped     EventKind = "jumped"
	EventRespawned  EventKind = "respawned"
)

// Event is raised by systems for whoever drains the queue later in the frame.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Peek returns the pending events without consuming them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Flush drops anything left unread at the end of a frame.
func (q *EventQueue) Flush() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
