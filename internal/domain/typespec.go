package domain

import (
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

var typespecCodes = map[m.TypeKind]m.ObjectType{
	m.KindUntyped:     m.TypeUndefined,
	m.KindLogic:       m.TypeLogicTypespec,
	m.KindBit:         m.TypeBitTypespec,
	m.KindInt:         m.TypeIntTypespec,
	m.KindInteger:     m.TypeIntegerTypespec,
	m.KindShortInt:    m.TypeShortIntTypespec,
	m.KindLongInt:     m.TypeLongIntTypespec,
	m.KindByte:        m.TypeByteTypespec,
	m.KindReal:        m.TypeRealTypespec,
	m.KindString:      m.TypeStringTypespec,
	m.KindStruct:      m.TypeStructTypespec,
	m.KindUnion:       m.TypeUnionTypespec,
	m.KindPackedArray: m.TypePackedArrayTypespec,
	m.KindArray:       m.TypeArrayTypespec,
}

var variableCodes = map[m.TypeKind]m.ObjectType{
	m.KindLogic:       m.TypeLogicVar,
	m.KindBit:         m.TypeBitVar,
	m.KindInt:         m.TypeIntVar,
	m.KindInteger:     m.TypeIntegerVar,
	m.KindShortInt:    m.TypeShortIntVar,
	m.KindLongInt:     m.TypeLongIntVar,
	m.KindByte:        m.TypeByteVar,
	m.KindReal:        m.TypeRealVar,
	m.KindString:      m.TypeStringVar,
	m.KindStruct:      m.TypeStructVar,
	m.KindUnion:       m.TypeUnionVar,
	m.KindPackedArray: m.TypePackedArrayVar,
	m.KindArray:       m.TypeArrayVar,
	m.KindUntyped:     m.TypeParameter,
}

func (e *engine) typespecCode(id m.TypespecID) m.ObjectType {
	return typespecCodes[e.design.Typespec(id).Kind]
}

// varType is the object type of a view, before compatibility mapping.
func (e *engine) varType(v *varObj) m.ObjectType {
	elem := e.design.Element(v.elem)
	kind := e.design.Typespec(v.ts).Kind

	if v.role == roleDeclared && elem.Class == m.ClassParameter {
		return m.TypeParameter
	}

	if elem.Class == m.ClassNet {
		switch {
		case kind == m.KindArray:
			return m.TypeNetArray
		case v.role == roleBitSelect:
			return m.TypeNetBit
		case kind == m.KindLogic || kind == m.KindBit:
			return m.TypeNet
		}
	}

	if v.role == roleBitSelect {
		return m.TypeRegBit
	}

	return variableCodes[kind]
}

// classify reports the vpiScalar and vpiVector properties of a view. An
// unpacked array takes them from its immediate element; bit selects are
// always scalar.
func (e *engine) classify(v *varObj) (scalar, vector bool) {
	t := e.design.Typespec(v.ts)
	if v.role == roleBitSelect {
		return true, false
	}

	if t.Kind == m.KindArray {
		t = e.design.Typespec(t.Elem)
	}

	switch t.Kind {
	case m.KindLogic, m.KindBit:
		if len(t.Dims) == 0 {
			return true, false
		}

		return false, true
	case m.KindInt, m.KindInteger, m.KindShortInt, m.KindLongInt, m.KindByte, m.KindReal, m.KindUntyped:
		return true, false
	case m.KindPackedArray:
		return false, true
	default:
		return false, false
	}
}

// size is vpiSize: the element count of unpacked arrays, the current
// length of strings and the bit width of everything else.
func (e *engine) size(v *varObj) int {
	t := e.design.Typespec(v.ts)

	switch t.Kind {
	case m.KindArray:
		return e.design.ElemCount(v.ts)
	case m.KindReal:
		return 64
	case m.KindString:
		s, err := e.store.ReadString(v.elem)
		if err != nil {
			return 0
		}

		return len(s)
	default:
		return e.design.PackedWidth(v.ts)
	}
}

// typespecSize is vpiSize of a typespec handle.
func (e *engine) typespecSize(id m.TypespecID) int {
	switch e.design.Typespec(id).Kind {
	case m.KindArray:
		return e.design.ElemCount(id)
	case m.KindReal:
		return 64
	case m.KindString:
		return 0
	default:
		return e.design.PackedWidth(id)
	}
}

// ranges lists the declared dimensions of a type, outermost first: the
// unpacked dimensions of an array, the packed-array levels, or the packed
// dimensions of a logic or bit vector.
func (e *engine) ranges(id m.TypespecID) []m.Range {
	t := e.design.Typespec(id)

	switch t.Kind {
	case m.KindArray, m.KindPackedArray:
		var out []m.Range

		for kind := t.Kind; t.Kind == kind; t = e.design.Typespec(t.Elem) {
			out = append(out, t.Range)
		}

		return out
	case m.KindLogic, m.KindBit:
		return t.Dims
	default:
		return nil
	}
}

// hasMembers reports whether a typespec is a struct or union.
func (e *engine) hasMembers(id m.TypespecID) bool {
	k := e.design.Typespec(id).Kind
	return k == m.KindStruct || k == m.KindUnion
}
