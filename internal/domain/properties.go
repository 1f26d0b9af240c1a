package domain

import (
	"fmt"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Get returns an integer property. Properties that do not apply to the
// object read as zero; unknown codes and unmodelled features record
// ErrUnsupported.
func (e *engine) Get(prop m.Property, h m.Handle) int32 {
	e.begin()

	obj, err := e.object(h)
	if err != nil {
		e.fail(err)
		return 0
	}

	switch prop {
	case m.PropIsRandomized, m.PropRandType, m.PropAllocScheme:
		e.fail(fmt.Errorf("%s: %w", prop, ErrUnsupported))
		return 0
	case m.PropType:
		return int32(e.compat.objectType(e.typeCode(obj)))
	}

	if !prop.IsKnown() {
		e.fail(fmt.Errorf("property %d: %w", prop, ErrUnsupported))
		return 0
	}

	switch o := obj.(type) {
	case *varObj:
		return e.varProperty(prop, o)
	case scopeObj:
		if prop == m.PropTopModule && !e.design.Scope(o.id).Parent.IsValid() {
			return 1
		}
	case rangeObj:
		if prop == m.PropSize {
			return int32(o.r.Len())
		}
	case constObj:
		switch prop {
		case m.PropSize:
			return 32
		case m.PropSigned:
			return 1
		}
	case typespecObj:
		switch prop {
		case m.PropSize:
			return int32(e.typespecSize(o.id))
		case m.PropSigned:
			return boolProp(e.design.IsSigned(e.design.Leaf(o.id)))
		}
	case typespecMemberObj:
		if prop == m.PropSize {
			return int32(e.typespecSize(e.design.Typespec(o.owner).Members[o.index].Type))
		}
	case portObj:
		port := e.design.Scope(o.scope).Ports[o.index]

		switch prop {
		case m.PropDirection:
			return port.Direction
		case m.PropSize:
			return int32(e.size(e.declaredView(port.Element)))
		}
	case schedEventObj:
		if prop == m.PropScheduled {
			return boolProp(e.sched.Pending(o.event))
		}
	}

	if prop == m.PropArrayType {
		return -1
	}

	return 0
}

func (e *engine) varProperty(prop m.Property, v *varObj) int32 {
	elem := e.design.Element(v.elem)
	t := e.design.Typespec(v.ts)
	declaredArray := v.role == roleDeclared && t.Kind == m.KindArray

	switch prop {
	case m.PropSize:
		return int32(e.size(v))
	case m.PropScalar:
		scalar, _ := e.classify(v)
		return boolProp(scalar)
	case m.PropVector:
		_, vector := e.classify(v)
		return boolProp(vector)
	case m.PropArray:
		return boolProp(declaredArray)
	case m.PropArrayType:
		if declaredArray {
			return m.StaticArray
		}

		return -1
	case m.PropArrayMember:
		return boolProp(v.role == roleArrayMember)
	case m.PropPackedArrayMember:
		return boolProp(v.role == rolePackedArrayMember)
	case m.PropStructUnionMember:
		return boolProp(v.role == roleStructMember)
	case m.PropSigned:
		return boolProp(e.design.IsSigned(e.design.Leaf(v.ts)))
	case m.PropAutomatic:
		return boolProp(elem.Automatic)
	case m.PropConstantVariable:
		return boolProp(elem.Constant)
	case m.PropVisibility:
		return elem.Visibility
	default:
		return 0
	}
}

// typeCode is the native object type of obj, before compatibility mapping.
func (e *engine) typeCode(obj object) m.ObjectType {
	switch o := obj.(type) {
	case *varObj:
		return e.varType(o)
	case scopeObj:
		if e.design.Scope(o.id).Kind == m.ScopeGen {
			return m.TypeGenScope
		}

		return m.TypeModule
	case *iterObj:
		return m.TypeIterator
	case rangeObj:
		return m.TypeRange
	case constObj:
		return m.TypeConstant
	case typespecObj:
		return e.typespecCode(o.id)
	case typespecMemberObj:
		return m.TypeTypespecMember
	case portObj:
		return m.TypePort
	case callbackObj:
		return m.TypeCallback
	case systfObj:
		return m.TypeUserSystf
	case callObj:
		if o.frame.systf.data.Type == m.SysFunc {
			return m.TypeSysFuncCall
		}

		return m.TypeSysTaskCall
	case schedEventObj:
		return m.TypeSchedEvent
	default:
		return m.TypeUndefined
	}
}

// GetStr returns a string property, or "" when it does not apply.
func (e *engine) GetStr(prop m.Property, h m.Handle) string {
	e.begin()

	obj, err := e.object(h)
	if err != nil {
		e.fail(err)
		return ""
	}

	if !prop.IsKnown() {
		e.fail(fmt.Errorf("property %d: %w", prop, ErrUnsupported))
		return ""
	}

	if prop == m.PropType {
		return e.compat.typeName(e.compat.objectType(e.typeCode(obj)))
	}

	switch o := obj.(type) {
	case scopeObj:
		s := e.design.Scope(o.id)

		switch prop {
		case m.PropName:
			return s.Name
		case m.PropFullName:
			return e.design.ScopeFullName(o.id)
		case m.PropDefName:
			return s.DefName
		}
	case *varObj:
		switch prop {
		case m.PropName:
			return o.name
		case m.PropFullName:
			return e.fullName(o)
		}
	case portObj:
		port := e.design.Scope(o.scope).Ports[o.index]

		switch prop {
		case m.PropName:
			return port.Name
		case m.PropFullName:
			return e.design.ScopeFullName(o.scope) + "." + port.Name
		}
	case typespecObj:
		if prop == m.PropName {
			return e.design.TypespecName(o.id)
		}
	case typespecMemberObj:
		if prop == m.PropName {
			return e.design.Typespec(o.owner).Members[o.index].Name
		}
	case systfObj:
		if prop == m.PropName {
			return o.name
		}
	case callObj:
		if prop == m.PropName {
			return o.frame.systf.data.Name
		}
	}

	return ""
}

// HandleOf follows a one-to-one relation from ref.
func (e *engine) HandleOf(rel m.ObjectType, ref m.Handle) m.Handle {
	e.begin()

	if ref.IsNull() {
		if rel != m.TypeSysTfCall {
			return e.failed(fmt.Errorf("%s of the null handle: %w", rel, ErrInvalidHandle))
		}

		if len(e.calls) == 0 {
			return e.failed(fmt.Errorf("no system task call is active: %w", ErrNotFound))
		}

		return e.handles.acquire(callObj{frame: e.calls[len(e.calls)-1]})
	}

	obj, err := e.object(ref)
	if err != nil {
		return e.failed(err)
	}

	target, err := e.related(rel, obj)
	if err != nil {
		return e.failed(err)
	}

	return e.handles.acquire(target)
}

func (e *engine) related(rel m.ObjectType, obj object) (object, error) {
	switch rel {
	case m.TypeModule:
		return e.moduleOf(obj)
	case m.TypeScope:
		return e.scopeOf(obj, false)
	case m.TypeParent:
		return e.scopeOf(obj, true)
	case m.TypeTypespec:
		switch o := obj.(type) {
		case *varObj:
			return typespecObj{id: o.ts}, nil
		case portObj:
			port := e.design.Scope(o.scope).Ports[o.index]
			return typespecObj{id: e.design.Element(port.Element).Type}, nil
		case typespecMemberObj:
			return typespecObj{id: e.design.Typespec(o.owner).Members[o.index].Type}, nil
		}
	case m.TypeLeftRange, m.TypeRightRange:
		var r m.Range

		switch o := obj.(type) {
		case rangeObj:
			r = o.r
		case *varObj:
			rs := e.ranges(o.ts)
			if len(rs) == 0 || o.role == roleBitSelect {
				return nil, fmt.Errorf("%s has no range: %w", e.fullName(o), ErrNotFound)
			}

			r = rs[0]
		default:
			return nil, fmt.Errorf("%s of %s: %w", rel, obj.kind(), ErrUnsupported)
		}

		if rel == m.TypeLeftRange {
			return constObj{value: int64(r.Left)}, nil
		}

		return constObj{value: int64(r.Right)}, nil
	case m.TypeLowConn:
		if o, ok := obj.(portObj); ok {
			return e.declaredView(e.design.Scope(o.scope).Ports[o.index].Element), nil
		}
	case m.TypeUserSystf:
		if o, ok := obj.(callObj); ok {
			return systfObj{name: o.frame.systf.data.Name}, nil
		}
	case m.TypeExpr, m.TypeBit:
		return nil, fmt.Errorf("%s of %s: %w", rel, obj.kind(), ErrNotFound)
	}

	return nil, fmt.Errorf("%s of %s: %w", rel, obj.kind(), ErrUnsupported)
}

func (e *engine) moduleOf(obj object) (object, error) {
	var from m.ScopeID

	switch o := obj.(type) {
	case scopeObj:
		from = o.id
		if e.design.Scope(o.id).Kind == m.ScopeModule {
			from = e.design.Scope(o.id).Parent
		}
	case *varObj:
		from = e.design.Element(o.elem).Scope
	case portObj:
		from = o.scope
	default:
		return nil, fmt.Errorf("vpiModule of %s: %w", obj.kind(), ErrUnsupported)
	}

	mod := e.design.EnclosingModule(from)
	if !mod.IsValid() {
		return nil, fmt.Errorf("no enclosing module: %w", ErrNotFound)
	}

	return scopeObj{id: mod}, nil
}

// scopeOf follows vpiScope or, when parent is set, vpiParent. A selected
// view's parent is the view it was selected from.
func (e *engine) scopeOf(obj object, parent bool) (object, error) {
	var from m.ScopeID

	switch o := obj.(type) {
	case *varObj:
		if parent && o.parent != nil {
			return o.parent, nil
		}

		return scopeObj{id: e.design.Element(o.elem).Scope}, nil
	case portObj:
		return scopeObj{id: o.scope}, nil
	case scopeObj:
		from = e.design.Scope(o.id).Parent
	case typespecMemberObj:
		if parent {
			return typespecObj{id: o.owner}, nil
		}

		return nil, fmt.Errorf("vpiScope of %s: %w", obj.kind(), ErrUnsupported)
	default:
		return nil, fmt.Errorf("scope of %s: %w", obj.kind(), ErrUnsupported)
	}

	if !from.IsValid() {
		return nil, fmt.Errorf("top-level scope has no parent: %w", ErrNotFound)
	}

	return scopeObj{id: from}, nil
}

func boolProp(b bool) int32 {
	if b {
		return 1
	}

	return 0
}
