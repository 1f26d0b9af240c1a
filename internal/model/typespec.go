package model

import (
	"fmt"
	"strings"
)

// TypeKind tags the variant stored in a Typespec.
type TypeKind uint8

// Typespec kinds.
const (
	KindUntyped TypeKind = iota
	KindLogic
	KindBit
	KindInt
	KindInteger
	KindShortInt
	KindLongInt
	KindByte
	KindReal
	KindString
	KindStruct
	KindUnion
	KindPackedArray
	KindArray
)

var typeKindNames = map[TypeKind]string{
	KindUntyped:     "untyped",
	KindLogic:       "logic",
	KindBit:         "bit",
	KindInt:         "int",
	KindInteger:     "integer",
	KindShortInt:    "shortint",
	KindLongInt:     "longint",
	KindByte:        "byte",
	KindReal:        "real",
	KindString:      "string",
	KindStruct:      "struct",
	KindUnion:       "union",
	KindPackedArray: "packed_array",
	KindArray:       "array",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseTypeKind maps the design-file spelling of a base type to its kind.
func ParseTypeKind(name string) (TypeKind, bool) {
	for kind, n := range typeKindNames {
		if n == name {
			return kind, true
		}
	}

	if name == "reg" {
		return KindLogic, true
	}

	return KindUntyped, false
}

// Range is one declared dimension, kept exactly as written.
type Range struct {
	Left  int
	Right int
}

// Len is the number of positions in the range.
func (r Range) Len() int {
	return absInt(r.Left-r.Right) + 1
}

// Contains reports whether i is a legal index.
func (r Range) Contains(i int) bool {
	lo, hi := r.Left, r.Right
	if lo > hi {
		lo, hi = hi, lo
	}

	return i >= lo && i <= hi
}

// Position is the distance of index i from the left bound, i.e. the
// storage slot of an unpacked element.
func (r Range) Position(i int) int {
	return absInt(i - r.Left)
}

// Offset is the distance of index i from the right bound, i.e. the
// element number counted from the least significant end of a packed
// dimension.
func (r Range) Offset(i int) int {
	return absInt(i - r.Right)
}

// Indices lists the indices from left to right.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Len())

	step := 1
	if r.Left > r.Right {
		step = -1
	}

	for i := r.Left; ; i += step {
		out = append(out, i)
		if i == r.Right {
			break
		}
	}

	return out
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d]", r.Left, r.Right)
}

// Member is a named field of a struct or union typespec.
type Member struct {
	Name string
	Type TypespecID
}

// Typespec describes a type. Which fields are meaningful depends on Kind:
// Dims for logic and bit vectors, Members for struct and union, Elem and
// Range for packed and unpacked arrays, Width for untyped parameters.
type Typespec struct {
	Kind    TypeKind
	Name    string
	Signed  bool
	Width   int
	Dims    []Range
	Members []Member
	Elem    TypespecID
	Range   Range
}

func (t Typespec) key() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d|%s|%t|%d|", t.Kind, t.Name, t.Signed, t.Width)

	for _, d := range t.Dims {
		b.WriteString(d.String())
	}

	b.WriteByte('|')

	for _, m := range t.Members {
		fmt.Fprintf(&b, "%s:%d,", m.Name, m.Type)
	}

	fmt.Fprintf(&b, "|%d|%s", t.Elem, t.Range.String())

	return b.String()
}

// IsIntegral reports whether values of the kind are stored as a packed
// bit vector.
func (k TypeKind) IsIntegral() bool {
	switch k {
	case KindReal, KindString, KindArray:
		return false
	default:
		return true
	}
}

// IntrinsicSigned reports whether the kind is signed without a declaration.
func (k TypeKind) IntrinsicSigned() bool {
	switch k {
	case KindInt, KindInteger, KindShortInt, KindLongInt, KindByte:
		return true
	default:
		return false
	}
}

// FixedWidth returns the width of the built-in integer kinds and real.
func (k TypeKind) FixedWidth() (int, bool) {
	switch k {
	case KindInt, KindInteger:
		return 32, true
	case KindShortInt:
		return 16, true
	case KindLongInt, KindReal:
		return 64, true
	case KindByte:
		return 8, true
	default:
		return 0, false
	}
}

const defaultUntypedWidth = 32

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
