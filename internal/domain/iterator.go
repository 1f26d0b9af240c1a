package domain

import (
	"fmt"
	"log/slog"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Iterate materializes the children of parent selected by kind. It returns
// the null handle, without recording an error, when there are none.
func (e *engine) Iterate(kind m.ObjectType, parent m.Handle) m.Handle {
	e.begin()

	var (
		obj object
		err error
	)

	if !parent.IsNull() {
		if obj, err = e.object(parent); err != nil {
			return e.failed(err)
		}
	}

	items, err := e.children(kind, obj)
	if err != nil {
		return e.failed(err)
	}

	if len(items) == 0 {
		return 0
	}

	slog.Debug("created iterator", "kind", kind.String(), "items", len(items))

	return e.handles.acquire(&iterObj{items: items})
}

func (e *engine) Scan(iter m.Handle) (m.Handle, error) {
	e.begin()

	obj, err := e.object(iter)
	if err != nil {
		e.fail(err)
		return 0, err
	}

	it, ok := obj.(*iterObj)
	if !ok {
		err = fmt.Errorf("%s handle is not an iterator: %w", obj.kind(), ErrInvalidHandle)
		e.fail(err)

		return 0, err
	}

	if it.pos >= len(it.items) {
		e.handles.release(iter)
		return 0, nil
	}

	next := it.items[it.pos]
	it.pos++

	return e.handles.acquire(next), nil
}

func (e *engine) children(kind m.ObjectType, parent object) ([]object, error) {
	switch p := parent.(type) {
	case nil:
		if kind != m.TypeModule {
			return nil, fmt.Errorf("%s iteration needs a parent: %w", kind, ErrInvalidHandle)
		}

		return e.scopes(e.design.Tops(), m.ScopeModule), nil
	case scopeObj:
		return e.scopeChildren(kind, p.id)
	case *varObj:
		return e.varChildren(kind, p)
	case typespecObj:
		switch kind {
		case m.TypeMember:
			var out []object
			if e.hasMembers(p.id) {
				for i := range e.design.Typespec(p.id).Members {
					out = append(out, typespecMemberObj{owner: p.id, index: i})
				}
			}

			return out, nil
		case m.TypeRange:
			return rangeObjects(e.ranges(p.id)), nil
		}
	}

	return nil, fmt.Errorf("%s iteration on %s: %w", kind, parent.kind(), ErrUnsupported)
}

func (e *engine) scopes(ids []m.ScopeID, kind m.ScopeKind) []object {
	var out []object

	for _, id := range ids {
		if e.design.Scope(id).Kind == kind {
			out = append(out, scopeObj{id: id})
		}
	}

	return out
}

func (e *engine) scopeChildren(kind m.ObjectType, id m.ScopeID) ([]object, error) {
	s := e.design.Scope(id)

	switch kind {
	case m.TypeModule:
		return e.scopes(s.Children, m.ScopeModule), nil
	case m.TypeInternalScope:
		return e.scopes(s.Children, m.ScopeGen), nil
	case m.TypePort:
		var out []object
		for i := range s.Ports {
			out = append(out, portObj{scope: id, index: i})
		}

		return out, nil
	}

	var keep func(el *m.Element, t *m.Typespec) bool

	switch kind {
	case m.TypeVariables:
		keep = func(el *m.Element, _ *m.Typespec) bool { return el.Class == m.ClassVariable }
	case m.TypeReg:
		keep = func(el *m.Element, t *m.Typespec) bool {
			return el.Class == m.ClassVariable && t.Kind == m.KindLogic
		}
	case m.TypeNet:
		keep = func(el *m.Element, t *m.Typespec) bool { return el.Class == m.ClassNet && t.Kind != m.KindArray }
	case m.TypeNetArray:
		keep = func(el *m.Element, t *m.Typespec) bool { return el.Class == m.ClassNet && t.Kind == m.KindArray }
	case m.TypeRegArray, m.TypeMemory:
		keep = func(el *m.Element, t *m.Typespec) bool {
			return el.Class == m.ClassVariable && t.Kind == m.KindArray
		}
	case m.TypeParameter:
		keep = func(el *m.Element, _ *m.Typespec) bool { return el.Class == m.ClassParameter }
	default:
		return nil, fmt.Errorf("%s iteration on a scope: %w", kind, ErrUnsupported)
	}

	var out []object

	for _, eid := range s.Elements {
		el := e.design.Element(eid)
		if keep(el, e.design.Typespec(el.Type)) {
			out = append(out, e.declaredView(eid))
		}
	}

	return out, nil
}

func (e *engine) varChildren(kind m.ObjectType, v *varObj) ([]object, error) {
	switch kind {
	case m.TypeMember:
		return e.members(v), nil
	case m.TypeRange:
		if v.role == roleBitSelect {
			return nil, nil
		}

		return rangeObjects(e.ranges(v.ts)), nil
	case m.TypeBit:
		return e.bits(v), nil
	default:
		return nil, fmt.Errorf("%s iteration on a variable: %w", kind, ErrUnsupported)
	}
}

func rangeObjects(rs []m.Range) []object {
	out := make([]object, 0, len(rs))
	for _, r := range rs {
		out = append(out, rangeObj{r: r})
	}

	return out
}
