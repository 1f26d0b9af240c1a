package adapter

import (
	"container/heap"
	"log/slog"
	"sync"
)

// EventID identifies a scheduled event. Zero is never issued.
type EventID uint64

// Scheduler owns simulation time and runs deferred actions.
type Scheduler interface {
	Now() uint64
	ScheduleAt(t uint64, fn func()) EventID
	Cancel(id EventID) bool
	Pending(id EventID) bool
}

// Stepper is a Scheduler that a host loop drives forward.
type Stepper interface {
	Scheduler
	NextTime() (uint64, bool)
	Advance(t uint64) int
}

type event struct {
	id   EventID
	at   uint64
	seq  uint64
	fn   func()
	heap int
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heap = i
	h[j].heap = j
}

func (h *eventHeap) Push(x any) {
	e := x.(*event)
	e.heap = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heap = -1
	*h = old[:n-1]

	return e
}

// EventQueue is an in-memory Scheduler. Events run ordered by time and,
// within one time slot, by scheduling order.
type EventQueue struct {
	mu      sync.Mutex
	now     uint64
	seq     uint64
	events  eventHeap
	pending map[EventID]*event
}

// NewEventQueue returns a queue at time zero.
func NewEventQueue() *EventQueue {
	return &EventQueue{pending: make(map[EventID]*event)}
}

// Now implements Scheduler.
func (q *EventQueue) Now() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.now
}

// ScheduleAt implements Scheduler. Times in the past run at the current time.
func (q *EventQueue) ScheduleAt(t uint64, fn func()) EventID {
	q.mu.Lock()
	defer q.mu.Unlock()

	t = max(t, q.now)

	q.seq++
	e := &event{id: EventID(q.seq), at: t, seq: q.seq, fn: fn}
	heap.Push(&q.events, e)
	q.pending[e.id] = e

	slog.Debug("scheduled event", "id", e.id, "at", t)

	return e.id
}

// Cancel implements Scheduler.
func (q *EventQueue) Cancel(id EventID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.pending[id]
	if !ok {
		return false
	}

	heap.Remove(&q.events, e.heap)
	delete(q.pending, id)

	slog.Debug("cancelled event", "id", id)

	return true
}

// Pending implements Scheduler.
func (q *EventQueue) Pending(id EventID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.pending[id]

	return ok
}

// NextTime reports the time of the earliest pending event.
func (q *EventQueue) NextTime() (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return 0, false
	}

	return q.events[0].at, true
}

// Advance moves time forward to t, running every event due at or before
// it, and returns the number of events run. Actions may schedule further
// events; those due by t run in the same call.
func (q *EventQueue) Advance(t uint64) int {
	ran := 0

	for {
		q.mu.Lock()

		if len(q.events) == 0 || q.events[0].at > t {
			q.now = max(q.now, t)
			q.mu.Unlock()

			return ran
		}

		e, _ := heap.Pop(&q.events).(*event)
		delete(q.pending, e.id)
		q.now = e.at
		q.mu.Unlock()

		e.fn()

		ran++
	}
}
