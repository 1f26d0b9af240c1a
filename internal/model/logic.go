package model

import (
	"math/big"
	"strings"
)

// Logic is a 4-state bit vector in VPI aval/bval encoding, least
// significant bit first: 0=(0,0) 1=(1,0) Z=(0,1) X=(1,1).
type Logic struct {
	Width int
	Aval  []uint32
	Bval  []uint32
}

// NewLogic returns an all-zero vector.
func NewLogic(width int) Logic {
	n := wordsFor(width)

	return Logic{Width: width, Aval: make([]uint32, n), Bval: make([]uint32, n)}
}

// FilledLogic returns a vector with every bit set to the scalar value v.
func FilledLogic(width int, v int32) Logic {
	l := NewLogic(width)
	for i := range width {
		l.SetBit(i, v)
	}

	return l
}

// LogicFromUint64 truncates or zero-extends v to width bits.
func LogicFromUint64(width int, v uint64) Logic {
	l := NewLogic(width)
	for i := 0; i < len(l.Aval) && i < 2; i++ {
		l.Aval[i] = uint32(v >> (32 * i))
	}

	l.mask()

	return l
}

// LogicFromInt64 truncates or sign-extends v to width bits.
func LogicFromInt64(width int, v int64) Logic {
	l := NewLogic(width)
	for i := range l.Aval {
		shift := 32 * i
		if shift >= 64 {
			if v < 0 {
				l.Aval[i] = ^uint32(0)
			}

			continue
		}

		l.Aval[i] = uint32(v >> shift)
	}

	l.mask()

	return l
}

// LogicFromBig converts a non-negative or negative integer in two's
// complement to width bits.
func LogicFromBig(width int, v *big.Int) Logic {
	l := NewLogic(width)

	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	u := new(big.Int).Mod(v, mod)

	for i := range width {
		if u.Bit(i) == 1 {
			l.SetBit(i, Scalar1)
		}
	}

	return l
}

// Bit returns bit i as a scalar constant.
func (l Logic) Bit(i int) int32 {
	if i < 0 || i >= l.Width {
		return ScalarX
	}

	w, b := i/32, uint(i%32)
	a := (l.Aval[w] >> b) & 1
	z := (l.Bval[w] >> b) & 1

	switch {
	case a == 0 && z == 0:
		return Scalar0
	case a == 1 && z == 0:
		return Scalar1
	case a == 0:
		return ScalarZ
	default:
		return ScalarX
	}
}

// SetBit assigns the scalar value v to bit i.
func (l *Logic) SetBit(i int, v int32) {
	if i < 0 || i >= l.Width {
		return
	}

	w, b := i/32, uint(i%32)
	l.Aval[w] &^= 1 << b
	l.Bval[w] &^= 1 << b

	switch v {
	case Scalar1:
		l.Aval[w] |= 1 << b
	case ScalarZ:
		l.Bval[w] |= 1 << b
	case ScalarX:
		l.Aval[w] |= 1 << b
		l.Bval[w] |= 1 << b
	}
}

// Slice copies width bits starting at offset.
func (l Logic) Slice(offset, width int) Logic {
	out := NewLogic(width)
	for i := range width {
		out.SetBit(i, l.Bit(offset+i))
	}

	return out
}

// Splice overwrites the bits starting at offset with v.
func (l *Logic) Splice(offset int, v Logic) {
	for i := range v.Width {
		l.SetBit(offset+i, v.Bit(i))
	}
}

// Resize truncates or extends to width. Extension copies the sign bit when
// signed is set and pads with zeros otherwise.
func (l Logic) Resize(width int, signed bool) Logic {
	out := NewLogic(width)

	fill := Scalar0
	if signed && l.Width > 0 {
		fill = l.Bit(l.Width - 1)
	}

	for i := range width {
		if i < l.Width {
			out.SetBit(i, l.Bit(i))
		} else {
			out.SetBit(i, fill)
		}
	}

	return out
}

// Uint64 reads the low 64 bits, treating X and Z as 0.
func (l Logic) Uint64() uint64 {
	var v uint64
	for i := 0; i < len(l.Aval) && i < 2; i++ {
		v |= uint64(l.Aval[i]&^l.Bval[i]) << (32 * i)
	}

	return v
}

// Int64 reads the value as a signed or unsigned integer of at most 64 bits.
func (l Logic) Int64(signed bool) int64 {
	v := l.Uint64()
	if signed && l.Width > 0 && l.Width < 64 && l.Bit(l.Width-1) == Scalar1 {
		v |= ^uint64(0) << uint(l.Width)
	}

	return int64(v)
}

// BigInt converts a fully known vector to an integer.
func (l Logic) BigInt(signed bool) *big.Int {
	v := new(big.Int)
	for i := l.Width - 1; i >= 0; i-- {
		v.Lsh(v, 1)
		if l.Bit(i) == Scalar1 {
			v.SetBit(v, 0, 1)
		}
	}

	if signed && l.Width > 0 && l.Bit(l.Width-1) == Scalar1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(l.Width)))
	}

	return v
}

// IsKnown reports whether no bit is X or Z.
func (l Logic) IsKnown() bool {
	for _, b := range l.Bval {
		if b != 0 {
			return false
		}
	}

	return true
}

// ClearUnknown turns every X and Z bit into 0.
func (l *Logic) ClearUnknown() {
	for i := range l.Aval {
		l.Aval[i] &^= l.Bval[i]
		l.Bval[i] = 0
	}
}

// Equal compares width and every bit.
func (l Logic) Equal(o Logic) bool {
	if l.Width != o.Width {
		return false
	}

	for i := range l.Aval {
		if l.Aval[i] != o.Aval[i] || l.Bval[i] != o.Bval[i] {
			return false
		}
	}

	return true
}

// Clone returns a deep copy.
func (l Logic) Clone() Logic {
	return Logic{
		Width: l.Width,
		Aval:  append([]uint32(nil), l.Aval...),
		Bval:  append([]uint32(nil), l.Bval...),
	}
}

// BinString renders the vector most significant bit first.
func (l Logic) BinString() string {
	var b strings.Builder

	b.Grow(l.Width)

	for i := l.Width - 1; i >= 0; i-- {
		b.WriteByte(scalarChar(l.Bit(i)))
	}

	return b.String()
}

// OctString renders groups of three bits.
func (l Logic) OctString() string {
	return l.radixString(3)
}

// HexString renders groups of four bits.
func (l Logic) HexString() string {
	return l.radixString(4)
}

// DecString renders the value in decimal. An all-X vector renders as "x"
// and an all-Z vector as "z". Otherwise any X bit gives "X" and any Z bit
// gives "Z".
func (l Logic) DecString(signed bool) string {
	if !l.IsKnown() {
		var xs, zs int
		for i := range l.Width {
			switch l.Bit(i) {
			case ScalarZ:
				zs++
			case ScalarX:
				xs++
			}
		}

		switch {
		case zs == l.Width:
			return "z"
		case xs == l.Width:
			return "x"
		case xs > 0:
			return "X"
		default:
			return "Z"
		}
	}

	return l.BigInt(signed).String()
}

func (l Logic) radixString(bits int) string {
	digits := (l.Width + bits - 1) / bits
	out := make([]byte, digits)

	for d := range digits {
		var (
			value      uint
			xs, zs, in int
		)

		for k := range bits {
			i := d*bits + k
			if i >= l.Width {
				break
			}

			in++

			switch l.Bit(i) {
			case Scalar1:
				value |= 1 << uint(k)
			case ScalarX:
				xs++
			case ScalarZ:
				zs++
			}
		}

		var c byte

		switch {
		case xs == in:
			c = 'x'
		case zs == in:
			c = 'z'
		case xs > 0:
			c = 'X'
		case zs > 0:
			c = 'Z'
		default:
			c = "0123456789abcdef"[value]
		}

		out[digits-1-d] = c
	}

	return string(out)
}

func scalarChar(v int32) byte {
	switch v {
	case Scalar1:
		return '1'
	case ScalarZ:
		return 'z'
	case ScalarX:
		return 'x'
	default:
		return '0'
	}
}

func (l *Logic) mask() {
	if l.Width%32 == 0 || len(l.Aval) == 0 {
		return
	}

	last := len(l.Aval) - 1
	m := uint32(1)<<uint(l.Width%32) - 1
	l.Aval[last] &= m
	l.Bval[last] &= m
}

func wordsFor(width int) int {
	return (width + 31) / 32
}
