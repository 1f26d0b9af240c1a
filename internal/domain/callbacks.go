package domain

import (
	"fmt"
	"log/slog"
	"slices"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

type callback struct {
	id     uint64
	data   m.CbData
	handle m.Handle

	// value-change state
	target *varObj
	last   snapshot

	// cbAfterDelay deadline
	due uint64

	removed bool
}

// snapshot is the last value a value-change callback observed.
type snapshot struct {
	bits m.Logic
	real float64
	str  string
}

func (s snapshot) equal(o snapshot) bool {
	return s.bits.Equal(o.bits) && s.real == o.real && s.str == o.str
}

// callbackTable keeps callbacks in registration order.
type callbackTable struct {
	next  uint64
	byID  map[uint64]*callback
	order []uint64
}

func newCallbackTable() *callbackTable {
	return &callbackTable{byID: make(map[uint64]*callback)}
}

func (t *callbackTable) add(cb *callback) {
	t.next++
	cb.id = t.next
	t.byID[cb.id] = cb
	t.order = append(t.order, cb.id)
}

func (t *callbackTable) remove(id uint64) *callback {
	cb, ok := t.byID[id]
	if !ok {
		return nil
	}

	cb.removed = true
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(x uint64) bool { return x == id })

	return cb
}

// snapshotIDs copies the current order so handlers may register and
// remove callbacks during dispatch.
func (t *callbackTable) snapshotIDs() []uint64 {
	return slices.Clone(t.order)
}

func (e *engine) RegisterCb(data m.CbData) (m.Handle, error) {
	e.begin()

	h, err := e.registerCb(data)
	if err != nil {
		e.fail(err)
		return 0, err
	}

	return h, nil
}

func (e *engine) registerCb(data m.CbData) (m.Handle, error) {
	if data.Func == nil {
		return 0, fmt.Errorf("%s callback without a routine: %w", data.Reason, ErrInvalidFormat)
	}

	cb := &callback{data: data}

	if data.Value != nil {
		v := *data.Value
		cb.data.Value = &v
	}

	switch data.Reason {
	case m.CbValueChange:
		v, err := e.variable(data.Obj)
		if err != nil {
			return 0, err
		}

		if e.design.Typespec(v.ts).Kind == m.KindArray {
			return 0, fmt.Errorf("value change on unpacked array %s: %w", e.fullName(v), ErrUnsupported)
		}

		cb.target = v

		last, err := e.snapshot(v)
		if err != nil {
			return 0, err
		}

		cb.last = last
	case m.CbAfterDelay:
		if data.Time == nil {
			return 0, fmt.Errorf("cbAfterDelay without a time: %w", ErrInvalidFormat)
		}

		cb.due = e.sched.Now() + data.Time.Ticks()

		// marks the time slot so the host loop stops there
		e.sched.ScheduleAt(cb.due, func() {})
	case m.CbReadWriteSynch, m.CbReadOnlySynch, m.CbNextSimTime, m.CbStartOfSimulation, m.CbEndOfSimulation:
	default:
		return 0, fmt.Errorf("%s: %w", data.Reason, ErrUnsupported)
	}

	e.callbacks.add(cb)
	cb.handle = e.handles.acquire(callbackObj{id: cb.id})

	slog.Debug("registered callback", "reason", data.Reason.String(), "id", cb.id)

	return cb.handle, nil
}

// RemoveCb cancels a callback and releases its handle.
func (e *engine) RemoveCb(h m.Handle) bool {
	e.begin()

	obj, err := e.object(h)
	if err != nil {
		e.fail(err)
		return false
	}

	o, ok := obj.(callbackObj)
	if !ok {
		e.fail(fmt.Errorf("%s handle is not a callback: %w", obj.kind(), ErrInvalidHandle))
		return false
	}

	cb := e.callbacks.remove(o.id)
	if cb == nil {
		return false
	}

	e.handles.release(cb.handle)

	return true
}

// CallValueCallbacks delivers a value-change event for every watched
// object whose value differs from the last delivery.
func (e *engine) CallValueCallbacks() int {
	return e.dispatch(func(cb *callback) bool {
		if cb.data.Reason != m.CbValueChange {
			return false
		}

		now, err := e.snapshot(cb.target)
		if err != nil || now.equal(cb.last) {
			return false
		}

		cb.last = now

		return true
	})
}

// CallTimedCallbacks delivers every cbAfterDelay callback that is due.
func (e *engine) CallTimedCallbacks() int {
	now := e.sched.Now()

	return e.dispatch(func(cb *callback) bool {
		return cb.data.Reason == m.CbAfterDelay && cb.due <= now
	})
}

// CallCallbacks delivers every callback registered for reason.
func (e *engine) CallCallbacks(reason m.CbReason) int {
	return e.dispatch(func(cb *callback) bool {
		return cb.data.Reason == reason
	})
}

// dispatch delivers to every callback selected by due, in registration
// order. Callbacks removed by an earlier handler are skipped.
func (e *engine) dispatch(due func(cb *callback) bool) int {
	fired := 0

	for _, id := range e.callbacks.snapshotIDs() {
		cb, ok := e.callbacks.byID[id]
		if !ok || cb.removed || !due(cb) {
			continue
		}

		e.deliver(cb)
		fired++

		if !cb.data.Reason.Persistent() && !cb.removed {
			e.callbacks.remove(cb.id)
			e.handles.release(cb.handle)
		}
	}

	return fired
}

func (e *engine) deliver(cb *callback) {
	now := m.NewSimTime(e.sched.Now())

	data := m.CbData{
		Reason:   cb.data.Reason,
		Func:     cb.data.Func,
		Obj:      cb.data.Obj,
		Time:     &now,
		UserData: cb.data.UserData,
	}

	if cb.target != nil {
		format := m.ObjTypeVal
		if cb.data.Value != nil {
			format = cb.data.Value.Format
		}

		if v, err := e.varValue(cb.target, format); err == nil {
			data.Value = &v
		}
	}

	e.metrics.CallbackFired(cb.data.Reason.String())

	if err := cb.data.Func(&data); err != nil {
		slog.Warn("callback routine failed", "reason", cb.data.Reason.String(), "id", cb.id, "error", err)
	}
}

func (e *engine) snapshot(v *varObj) (snapshot, error) {
	switch e.design.Typespec(v.ts).Kind {
	case m.KindReal:
		r, err := e.store.ReadReal(v.elem)
		return snapshot{real: r}, err
	case m.KindString:
		s, err := e.store.ReadString(v.elem)
		return snapshot{str: s}, err
	default:
		l, err := e.store.ReadBits(v.elem, v.offset, e.design.PackedWidth(v.ts))
		return snapshot{bits: l}, err
	}
}
