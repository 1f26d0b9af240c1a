package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Inspector answers questions about a design using only the public Engine
// surface, the same way a VPI application would.
type Inspector interface {
	Tree() ([]m.Node, error)
	Properties(name string) (m.PropertyRecord, error)
	Value(name string, format m.Format) (m.Value, error)
	Put(name, value string, format m.Format) error
}

type inspector struct {
	engine Engine
}

// NewInspector constructs an Inspector over engine.
func NewInspector(engine Engine) Inspector {
	return &inspector{engine: engine}
}

// errOf turns the engine's recorded error into a Go error.
func errOf(e Engine, what string) error {
	if err := e.LastError(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	return fmt.Errorf("%s: %w", what, ErrInternal)
}

// each scans every child of parent selected by kind. The child handle is
// released after fn returns.
func each(e Engine, kind m.ObjectType, parent m.Handle, fn func(h m.Handle) error) error {
	iter := e.Iterate(kind, parent)
	if iter.IsNull() {
		if err := e.LastError(); err != nil && !errors.Is(err, ErrUnsupported) {
			return err
		}

		return nil
	}

	for {
		h, err := e.Scan(iter)
		if err != nil {
			return err
		}

		if h.IsNull() {
			return nil
		}

		err = fn(h)
		e.ReleaseHandle(h)

		if err != nil {
			e.ReleaseHandle(iter)
			return err
		}
	}
}

// Tree walks every top-level module.
func (i *inspector) Tree() ([]m.Node, error) {
	var nodes []m.Node

	err := each(i.engine, m.TypeModule, 0, func(h m.Handle) error {
		n, err := i.scopeNode(h)
		nodes = append(nodes, n)

		return err
	})

	return nodes, err
}

func (i *inspector) node(h m.Handle) m.Node {
	e := i.engine

	return m.Node{
		Name:     e.GetStr(m.PropName, h),
		FullName: e.GetStr(m.PropFullName, h),
		Type:     e.GetStr(m.PropType, h),
		Size:     e.Get(m.PropSize, h),
	}
}

func (i *inspector) scopeNode(h m.Handle) (m.Node, error) {
	n := i.node(h)

	for _, kind := range []m.ObjectType{m.TypeNet, m.TypeVariables, m.TypeParameter} {
		err := each(i.engine, kind, h, func(child m.Handle) error {
			c, err := i.varNode(child)
			n.Children = append(n.Children, c)

			return err
		})
		if err != nil {
			return n, err
		}
	}

	for _, kind := range []m.ObjectType{m.TypeInternalScope, m.TypeModule} {
		err := each(i.engine, kind, h, func(child m.Handle) error {
			c, err := i.scopeNode(child)
			n.Children = append(n.Children, c)

			return err
		})
		if err != nil {
			return n, err
		}
	}

	return n, nil
}

func (i *inspector) varNode(h m.Handle) (m.Node, error) {
	n := i.node(h)

	err := each(i.engine, m.TypeMember, h, func(child m.Handle) error {
		c, err := i.varNode(child)
		n.Children = append(n.Children, c)

		return err
	})

	return n, err
}

// Properties collects the full property record of a named object.
func (i *inspector) Properties(name string) (m.PropertyRecord, error) {
	e := i.engine

	h := e.HandleByName(name, 0)
	if h.IsNull() {
		return m.PropertyRecord{}, errOf(e, name)
	}
	defer e.ReleaseHandle(h)

	rec := m.PropertyRecord{
		Name:              e.GetStr(m.PropName, h),
		FullName:          e.GetStr(m.PropFullName, h),
		Type:              e.GetStr(m.PropType, h),
		Size:              e.Get(m.PropSize, h),
		Scalar:            e.Get(m.PropScalar, h) == 1,
		Vector:            e.Get(m.PropVector, h) == 1,
		Array:             e.Get(m.PropArray, h) == 1,
		StructMember:      e.Get(m.PropStructUnionMember, h) == 1,
		ArrayMember:       e.Get(m.PropArrayMember, h) == 1,
		PackedArrayMember: e.Get(m.PropPackedArrayMember, h) == 1,
		Signed:            e.Get(m.PropSigned, h) == 1,
		Automatic:         e.Get(m.PropAutomatic, h) == 1,
		Constant:          e.Get(m.PropConstantVariable, h) == 1,
		Visibility:        e.Get(m.PropVisibility, h),
		ArrayType:         e.Get(m.PropArrayType, h),
	}

	if mod := e.HandleOf(m.TypeModule, h); !mod.IsNull() {
		rec.Module = e.GetStr(m.PropName, mod)
		e.ReleaseHandle(mod)
	}

	if scope := e.HandleOf(m.TypeScope, h); !scope.IsNull() {
		rec.Scope = e.GetStr(m.PropName, scope)
		e.ReleaseHandle(scope)
	}

	if ts := e.HandleOf(m.TypeTypespec, h); !ts.IsNull() {
		rec.Typespec = e.GetStr(m.PropType, ts)
		rec.TypespecName = e.GetStr(m.PropName, ts)
		e.ReleaseHandle(ts)
	}

	return rec, nil
}

// Value reads a named object.
func (i *inspector) Value(name string, format m.Format) (m.Value, error) {
	e := i.engine

	h := e.HandleByName(name, 0)
	if h.IsNull() {
		return m.Value{}, errOf(e, name)
	}
	defer e.ReleaseHandle(h)

	return e.GetValue(h, format)
}

// Put writes a textual value to a named object without delay.
func (i *inspector) Put(name, value string, format m.Format) error {
	e := i.engine

	v, err := ParseValue(value, format)
	if err != nil {
		return err
	}

	h := e.HandleByName(name, 0)
	if h.IsNull() {
		return errOf(e, name)
	}
	defer e.ReleaseHandle(h)

	_, err = e.PutValue(h, v, nil, m.NoDelay)

	return err
}

// ParseValue builds a Value of the given format from text.
func ParseValue(text string, format m.Format) (m.Value, error) {
	v := m.Value{Format: format}

	switch format {
	case m.BinStrVal, m.OctStrVal, m.DecStrVal, m.HexStrVal, m.StringVal:
		v.Str = text
	case m.IntVal:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 0, 32)
		if err != nil {
			return m.Value{}, fmt.Errorf("%q is not an integer: %w", text, ErrInvalidFormat)
		}

		v.Int = int32(n)
	case m.RealVal:
		r, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return m.Value{}, fmt.Errorf("%q is not a real: %w", text, ErrInvalidFormat)
		}

		v.Real = r
	case m.ScalarVal:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "0":
			v.Scalar = m.Scalar0
		case "1":
			v.Scalar = m.Scalar1
		case "z":
			v.Scalar = m.ScalarZ
		case "x":
			v.Scalar = m.ScalarX
		default:
			return m.Value{}, fmt.Errorf("%q is not a scalar: %w", text, ErrInvalidFormat)
		}
	default:
		return m.Value{}, fmt.Errorf("%s cannot be parsed from text: %w", format, ErrInvalidFormat)
	}

	return v, nil
}
