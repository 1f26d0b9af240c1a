package domain

import (
	"errors"
	"fmt"
	"log/slog"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

const productName = "vpiscope"

// Engine is a handle-based introspection interface over an elaborated
// design. Methods mirror the flat VPI call surface: the ones returning a
// bare handle or property report failure through ChkError, the others
// also return the error.
//
// An Engine is not safe for concurrent use; callbacks and system task
// routines run on the caller's goroutine and may call back into it.
type Engine interface {
	Iterate(kind m.ObjectType, parent m.Handle) m.Handle
	Scan(iter m.Handle) (m.Handle, error)
	HandleByName(name string, scope m.Handle) m.Handle
	HandleByIndex(parent m.Handle, index int) m.Handle
	HandleOf(rel m.ObjectType, ref m.Handle) m.Handle
	Get(prop m.Property, h m.Handle) int32
	GetStr(prop m.Property, h m.Handle) string
	GetValue(h m.Handle, format m.Format) (m.Value, error)
	PutValue(h m.Handle, v m.Value, when *m.Time, flags m.DelayMode) (m.Handle, error)
	GetTime(h m.Handle) m.Time
	ReleaseHandle(h m.Handle) bool

	RegisterCb(data m.CbData) (m.Handle, error)
	RemoveCb(h m.Handle) bool
	CallValueCallbacks() int
	CallTimedCallbacks() int
	CallCallbacks(reason m.CbReason) int

	RegisterSystf(data m.SystfData) (m.Handle, error)
	CallSystf(name string) (m.Value, error)

	ChkError() (m.ErrorInfo, bool)
	LastError() error
	LiveHandles() int
	Compat() Compat
}

// Option configures an Engine.
type Option func(*engine)

// WithCompat selects a compatibility mode.
func WithCompat(c Compat) Option {
	return func(e *engine) {
		e.compat = c
	}
}

// WithMetrics reports handle, callback and error activity to metrics.
func WithMetrics(metrics adapter.Metrics) Option {
	return func(e *engine) {
		if metrics != nil {
			e.metrics = metrics
		}
	}
}

type engine struct {
	design  *m.Design
	store   adapter.ValueStore
	sched   adapter.Scheduler
	metrics adapter.Metrics
	compat  Compat

	handles   *registry
	callbacks *callbackTable
	systfs    map[string]*systfEntry
	calls     []*callFrame
	pending   map[writeTarget][]adapter.EventID
	lastErr   *m.ErrorInfo
	lastCause error
}

// NewEngine builds an engine over design. Values live in store and
// simulation time and deferred writes are owned by sched.
func NewEngine(design *m.Design, store adapter.ValueStore, sched adapter.Scheduler, opts ...Option) (Engine, error) {
	switch {
	case design == nil:
		return nil, fmt.Errorf("design is required: %w", ErrConfiguration)
	case store == nil:
		return nil, fmt.Errorf("value store is required: %w", ErrConfiguration)
	case sched == nil:
		return nil, fmt.Errorf("scheduler is required: %w", ErrConfiguration)
	}

	e := &engine{
		design:    design,
		store:     store,
		sched:     sched,
		metrics:   adapter.NoopMetrics{},
		compat:    Compat{Version: NativeVersion},
		callbacks: newCallbackTable(),
		systfs:    make(map[string]*systfEntry),
		pending:   make(map[writeTarget][]adapter.EventID),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.handles = newRegistry(e.metrics)

	slog.Debug("engine ready", "elements", design.NumElements(), "compat", e.compat.Version)

	return e, nil
}

func (e *engine) Compat() Compat {
	return e.compat
}

func (e *engine) LiveHandles() int {
	return e.handles.live
}

func (e *engine) ChkError() (m.ErrorInfo, bool) {
	if e.lastErr == nil {
		return m.ErrorInfo{}, false
	}

	return *e.lastErr, true
}

// begin starts a public call: the error state only describes the most
// recent call.
func (e *engine) begin() {
	e.lastErr = nil
	e.lastCause = nil
}

// LastError is the error recorded by the most recent call, or nil.
func (e *engine) LastError() error {
	return e.lastCause
}

func (e *engine) fail(err error) {
	if err == nil {
		return
	}

	if errorKind(err) == "internal" && !errors.Is(err, ErrInternal) {
		err = fmt.Errorf("%w: %w", ErrInternal, err)
	}

	e.lastErr = &m.ErrorInfo{Level: errorLevel(err), Message: err.Error(), Product: productName}
	e.lastCause = err
	e.metrics.ErrorRecorded(errorKind(err))

	slog.Debug("vpi call failed", "error", err, "level", e.lastErr.Level)
}

// failed records err and returns the null handle.
func (e *engine) failed(err error) m.Handle {
	e.fail(err)
	return 0
}

func (e *engine) ReleaseHandle(h m.Handle) bool {
	e.begin()

	return e.handles.release(h)
}

func (e *engine) GetTime(_ m.Handle) m.Time {
	e.begin()

	return m.NewSimTime(e.sched.Now())
}

func (e *engine) object(h m.Handle) (object, error) {
	return e.handles.get(h)
}

func (e *engine) variable(h m.Handle) (*varObj, error) {
	obj, err := e.handles.get(h)
	if err != nil {
		return nil, err
	}

	v, ok := obj.(*varObj)
	if !ok {
		return nil, fmt.Errorf("%s handle is not a variable: %w", obj.kind(), ErrInvalidHandle)
	}

	return v, nil
}

// declaredView is the whole-element view of a declaration.
func (e *engine) declaredView(id m.ElementID) *varObj {
	elem := e.design.Element(id)

	return &varObj{elem: id, ts: elem.Type, name: elem.Name}
}

func (e *engine) fullName(v *varObj) string {
	return e.design.ScopeFullName(e.design.Element(v.elem).Scope) + "." + v.name
}
