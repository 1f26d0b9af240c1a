package domain

import (
	"fmt"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func (e *engine) HandleByIndex(parent m.Handle, index int) m.Handle {
	e.begin()

	v, err := e.variable(parent)
	if err != nil {
		return e.failed(err)
	}

	sel, err := e.index(v, index)
	if err != nil {
		return e.failed(err)
	}

	return e.handles.acquire(sel)
}

// index selects one position of the outermost dimension of v. Indices are
// declared values, not positions: [2:0] and [0:2] both accept 0 to 2, but
// address opposite ends.
func (e *engine) index(v *varObj, i int) (*varObj, error) {
	t := e.design.Typespec(v.ts)
	sel := &varObj{elem: v.elem, name: fmt.Sprintf("%s[%d]", v.name, i), parent: v}

	switch t.Kind {
	case m.KindArray:
		if !t.Range.Contains(i) {
			return nil, e.outOfRange(v, i)
		}

		sel.ts = t.Elem
		sel.offset = v.offset + t.Range.Position(i)*e.design.StorageWidth(t.Elem)
		sel.role = roleArrayMember
	case m.KindPackedArray:
		if !t.Range.Contains(i) {
			return nil, e.outOfRange(v, i)
		}

		sel.ts = t.Elem
		sel.offset = v.offset + t.Range.Offset(i)*e.design.PackedWidth(t.Elem)
		sel.role = rolePackedArrayMember
	case m.KindLogic, m.KindBit:
		if len(t.Dims) == 0 || !t.Dims[0].Contains(i) {
			return nil, e.outOfRange(v, i)
		}

		sel.ts = e.design.Dropped(v.ts)
		if !sel.ts.IsValid() {
			return nil, fmt.Errorf("%s has no inner vector type: %w", e.fullName(v), ErrInternal)
		}

		sel.offset = v.offset + t.Dims[0].Offset(i)*e.design.PackedWidth(sel.ts)

		sel.role = rolePartSelect
		if len(t.Dims) == 1 {
			sel.role = roleBitSelect
		}
	case m.KindInt, m.KindInteger, m.KindShortInt, m.KindLongInt, m.KindByte, m.KindStruct, m.KindUnion:
		if i < 0 || i >= e.design.PackedWidth(v.ts) {
			return nil, e.outOfRange(v, i)
		}

		bit := m.KindLogic
		if e.design.IsTwoState(v.ts) {
			bit = m.KindBit
		}

		ts, ok := e.design.Lookup(m.Typespec{Kind: bit})
		if !ok {
			return nil, fmt.Errorf("no 1-bit %s typespec: %w", bit, ErrInternal)
		}

		sel.ts = ts
		sel.offset = v.offset + i
		sel.role = roleBitSelect
	default:
		return nil, fmt.Errorf("%s cannot be indexed: %w", e.fullName(v), ErrNotFound)
	}

	return sel, nil
}

func (e *engine) outOfRange(v *varObj, i int) error {
	return fmt.Errorf("index %d outside %s: %w", i, e.fullName(v), ErrNotFound)
}

// member selects a named field of a struct or union view.
func (e *engine) member(v *varObj, name string) (*varObj, error) {
	t := e.design.Typespec(v.ts)
	if t.Kind != m.KindStruct && t.Kind != m.KindUnion {
		return nil, fmt.Errorf("%s has no member %q: %w", e.fullName(v), name, ErrNotFound)
	}

	for idx := range t.Members {
		if t.Members[idx].Name == name {
			return e.memberAt(v, idx), nil
		}
	}

	return nil, fmt.Errorf("%s has no member %q: %w", e.fullName(v), name, ErrNotFound)
}

func (e *engine) memberAt(v *varObj, idx int) *varObj {
	t := e.design.Typespec(v.ts)
	offsets := e.design.MemberOffsets(v.ts)

	return &varObj{
		elem:   v.elem,
		ts:     t.Members[idx].Type,
		name:   v.name + "." + t.Members[idx].Name,
		offset: v.offset + offsets[idx],
		role:   roleStructMember,
		parent: v,
	}
}

// members lists the member views of v: struct and union fields, or the
// elements of a packed array from left to right.
func (e *engine) members(v *varObj) []object {
	t := e.design.Typespec(v.ts)

	var out []object

	switch t.Kind {
	case m.KindStruct, m.KindUnion:
		for idx := range t.Members {
			out = append(out, e.memberAt(v, idx))
		}
	case m.KindPackedArray:
		for _, i := range t.Range.Indices() {
			sel, err := e.index(v, i)
			if err == nil {
				out = append(out, sel)
			}
		}
	}

	return out
}

// bits lists the selects of the outermost packed dimension of a logic or
// bit vector, from left to right.
func (e *engine) bits(v *varObj) []object {
	t := e.design.Typespec(v.ts)
	if (t.Kind != m.KindLogic && t.Kind != m.KindBit) || len(t.Dims) == 0 || v.role == roleBitSelect {
		return nil
	}

	out := make([]object, 0, t.Dims[0].Len())

	for _, i := range t.Dims[0].Indices() {
		sel, err := e.index(v, i)
		if err == nil {
			out = append(out, sel)
		}
	}

	return out
}
