package model

// PackedWidth is the number of bits of an integral typespec. It is zero for
// real, string and unpacked array typespecs.
func (d *Design) PackedWidth(id TypespecID) int {
	t := d.Typespec(id)
	if t == nil {
		return 0
	}

	if w, ok := t.Kind.FixedWidth(); ok && t.Kind != KindReal {
		return w
	}

	switch t.Kind {
	case KindLogic, KindBit:
		width := 1
		for _, r := range t.Dims {
			width *= r.Len()
		}

		return width
	case KindStruct:
		width := 0
		for _, m := range t.Members {
			width += d.PackedWidth(m.Type)
		}

		return width
	case KindUnion:
		width := 0
		for _, m := range t.Members {
			width = max(width, d.PackedWidth(m.Type))
		}

		return width
	case KindPackedArray:
		return t.Range.Len() * d.PackedWidth(t.Elem)
	case KindUntyped:
		if t.Width > 0 {
			return t.Width
		}

		return defaultUntypedWidth
	default:
		return 0
	}
}

// ElemCount is the number of leaf elements of an unpacked array typespec,
// the product of all its unpacked dimensions. Non-arrays count as one.
func (d *Design) ElemCount(id TypespecID) int {
	t := d.Typespec(id)
	if t == nil || t.Kind != KindArray {
		return 1
	}

	return t.Range.Len() * d.ElemCount(t.Elem)
}

// Leaf strips every unpacked dimension.
func (d *Design) Leaf(id TypespecID) TypespecID {
	for {
		t := d.Typespec(id)
		if t == nil || t.Kind != KindArray {
			return id
		}

		id = t.Elem
	}
}

// StorageWidth is the number of bits needed to store a whole element of
// the typespec: leaf width times element count.
func (d *Design) StorageWidth(id TypespecID) int {
	return d.PackedWidth(d.Leaf(id)) * d.ElemCount(id)
}

// IsTwoState reports whether every bit of the typespec is 2-state.
func (d *Design) IsTwoState(id TypespecID) bool {
	t := d.Typespec(id)
	if t == nil {
		return false
	}

	switch t.Kind {
	case KindBit, KindInt, KindShortInt, KindLongInt, KindByte:
		return true
	case KindStruct, KindUnion:
		for _, m := range t.Members {
			if !d.IsTwoState(m.Type) {
				return false
			}
		}

		return len(t.Members) > 0
	case KindPackedArray, KindArray:
		return d.IsTwoState(t.Elem)
	default:
		return false
	}
}

// IsSigned reports the declared or intrinsic signedness of a typespec.
func (d *Design) IsSigned(id TypespecID) bool {
	t := d.Typespec(id)
	if t == nil {
		return false
	}

	return t.Signed || t.Kind.IntrinsicSigned()
}

// TypespecName is the typedef name; arrays report their element's name.
func (d *Design) TypespecName(id TypespecID) string {
	for {
		t := d.Typespec(id)
		if t == nil {
			return ""
		}

		if t.Name != "" || (t.Kind != KindArray && t.Kind != KindPackedArray) {
			return t.Name
		}

		id = t.Elem
	}
}

// MemberOffsets returns the bit offset of each member of a packed struct
// or union, counted from the least significant bit. The first declared
// struct member is the most significant; union members all start at zero.
func (d *Design) MemberOffsets(id TypespecID) []int {
	t := d.Typespec(id)
	if t == nil {
		return nil
	}

	offsets := make([]int, len(t.Members))
	if t.Kind != KindStruct {
		return offsets
	}

	offset := 0
	for i := len(t.Members) - 1; i >= 0; i-- {
		offsets[i] = offset
		offset += d.PackedWidth(t.Members[i].Type)
	}

	return offsets
}

// Dropped returns the vector typespec left after removing the outermost
// packed dimension of a logic or bit vector. Selects are always unsigned.
// Intern adds every such inner vector, so Dropped never grows the design.
func (d *Design) Dropped(id TypespecID) TypespecID {
	t := d.Typespec(id)
	if t == nil || len(t.Dims) == 0 {
		return id
	}

	inner, ok := d.Lookup(dropDim(*t))
	if !ok {
		return NoTypespec
	}

	return inner
}

func dropDim(t Typespec) Typespec {
	inner := t
	inner.Name = ""
	inner.Signed = false
	inner.Dims = append([]Range(nil), t.Dims[1:]...)

	return inner
}
