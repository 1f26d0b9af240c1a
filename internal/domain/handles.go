package domain

import (
	"fmt"
	"log/slog"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

type slot struct {
	gen  uint32
	live bool
	obj  object
}

// registry is a generation-counted slot arena. A handle packs the slot
// index (plus one, so that zero stays null) in the high word and the slot
// generation in the low word; releasing bumps the generation so every
// outstanding copy of the handle goes stale at once.
type registry struct {
	slots   []slot
	free    []uint32
	live    int
	metrics adapter.Metrics
}

func newRegistry(metrics adapter.Metrics) *registry {
	return &registry{metrics: metrics}
}

func (r *registry) acquire(obj object) m.Handle {
	var idx uint32

	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}

	s := &r.slots[idx]
	s.gen++
	s.live = true
	s.obj = obj

	r.live++
	r.metrics.HandleAcquired(obj.kind())

	return m.Handle(uint64(idx+1)<<32 | uint64(s.gen))
}

func (r *registry) lookup(h m.Handle) (*slot, bool) {
	if h.IsNull() {
		return nil, false
	}

	idx := uint64(h)>>32 - 1
	if idx >= uint64(len(r.slots)) {
		return nil, false
	}

	s := &r.slots[idx]
	if !s.live || s.gen != uint32(h) {
		return nil, false
	}

	return s, true
}

func (r *registry) get(h m.Handle) (object, error) {
	s, ok := r.lookup(h)
	if !ok {
		return nil, fmt.Errorf("handle %#x: %w", uint64(h), ErrInvalidHandle)
	}

	return s.obj, nil
}

// release frees h. Null and stale handles are ignored.
func (r *registry) release(h m.Handle) bool {
	s, ok := r.lookup(h)
	if !ok {
		return false
	}

	kind := s.obj.kind()

	s.live = false
	s.obj = nil
	r.free = append(r.free, uint32(uint64(h)>>32-1))

	r.live--
	r.metrics.HandleReleased(kind)

	slog.Debug("released handle", "handle", uint64(h), "kind", kind)

	return true
}

func (r *registry) isLive(h m.Handle) bool {
	_, ok := r.lookup(h)
	return ok
}
