package domain

import (
	"fmt"
	"log/slog"
	"strings"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

type systfEntry struct {
	data     m.SystfData
	handle   m.Handle
	compiled bool
}

// callFrame is one active invocation of a system task or function.
type callFrame struct {
	systf *systfEntry
	ret   m.Value
}

// Bootstrap runs startup routines against e, in order. Routines register
// their system tasks and callbacks.
func Bootstrap(e Engine, routines ...func(Engine)) {
	for _, routine := range routines {
		routine(e)
	}
}

func (e *engine) RegisterSystf(data m.SystfData) (m.Handle, error) {
	e.begin()

	h, err := e.registerSystf(data)
	if err != nil {
		e.fail(err)
		return 0, err
	}

	return h, nil
}

func (e *engine) registerSystf(data m.SystfData) (m.Handle, error) {
	switch {
	case len(data.Name) < 2 || !strings.HasPrefix(data.Name, "$"):
		return 0, fmt.Errorf("system task name %q must start with $: %w", data.Name, ErrInvalidFormat)
	case data.Type != m.SysTask && data.Type != m.SysFunc:
		return 0, fmt.Errorf("%s: systf type %d: %w", data.Name, data.Type, ErrInvalidFormat)
	case data.CallTf == nil:
		return 0, fmt.Errorf("%s has no calltf routine: %w", data.Name, ErrInvalidFormat)
	}

	if _, ok := e.systfs[data.Name]; ok {
		return 0, fmt.Errorf("%s is already registered: %w", data.Name, ErrConfiguration)
	}

	entry := &systfEntry{data: data}
	entry.handle = e.handles.acquire(systfObj{name: data.Name})
	e.systfs[data.Name] = entry

	slog.Debug("registered system task", "name", data.Name, "type", int32(data.Type))

	return entry.handle, nil
}

// CallSystf invokes a registered system task or function and returns the
// value its routine put on the call handle.
func (e *engine) CallSystf(name string) (m.Value, error) {
	e.begin()

	entry, ok := e.systfs[name]
	if !ok {
		err := fmt.Errorf("system task %s: %w", name, ErrNotFound)
		e.fail(err)

		return m.Value{}, err
	}

	if !entry.compiled {
		entry.compiled = true

		if entry.data.CompileTf != nil {
			if err := entry.data.CompileTf(entry.data.UserData); err != nil {
				return m.Value{}, fmt.Errorf("%s compiletf: %w", name, err)
			}
		}
	}

	frame := &callFrame{systf: entry}

	e.calls = append(e.calls, frame)
	defer func() {
		e.calls = e.calls[:len(e.calls)-1]
	}()

	if err := entry.data.CallTf(entry.data.UserData); err != nil {
		return m.Value{}, fmt.Errorf("%s calltf: %w", name, err)
	}

	return frame.ret, nil
}

// setReturn stores the return value of a system function call.
func (e *engine) setReturn(frame *callFrame, val m.Value) error {
	if frame.systf.data.Type != m.SysFunc {
		return fmt.Errorf("%s is a task and returns nothing: %w", frame.systf.data.Name, ErrInvalidFormat)
	}

	switch val.Format {
	case m.IntVal, m.RealVal, m.VectorVal, m.BinStrVal, m.OctStrVal, m.DecStrVal, m.HexStrVal:
		frame.ret = val
		return nil
	default:
		return fmt.Errorf("%s as a return value: %w", val.Format, ErrInvalidFormat)
	}
}
