package model

import "fmt"

// VecVal is one 32-bit word of a vpiVectorVal value.
type VecVal struct {
	Aval uint32
	Bval uint32
}

// Value carries a value in one of the VPI formats. Only the field matching
// Format is meaningful; Str holds every string-based format.
type Value struct {
	Format Format
	Str    string
	Scalar int32
	Int    int32
	Real   float64
	Vector []VecVal
	Time   Time
}

func (v Value) String() string {
	switch v.Format {
	case BinStrVal, OctStrVal, DecStrVal, HexStrVal, StringVal:
		return v.Str
	case ScalarVal:
		return string(scalarChar(v.Scalar))
	case IntVal:
		return fmt.Sprintf("%d", v.Int)
	case RealVal:
		return fmt.Sprintf("%g", v.Real)
	case VectorVal:
		return VectorToLogic(v.Vector, len(v.Vector)*32).HexString()
	case TimeVal:
		return fmt.Sprintf("%d", v.Time.Ticks())
	default:
		return ""
	}
}

// LogicToVector splits a vector into VecVal words, least significant first.
func LogicToVector(l Logic) []VecVal {
	out := make([]VecVal, len(l.Aval))
	for i := range l.Aval {
		out[i] = VecVal{Aval: l.Aval[i], Bval: l.Bval[i]}
	}

	return out
}

// VectorToLogic assembles width bits from VecVal words. Missing words read
// as zero.
func VectorToLogic(words []VecVal, width int) Logic {
	l := NewLogic(width)
	for i := range l.Aval {
		if i >= len(words) {
			break
		}

		l.Aval[i] = words[i].Aval
		l.Bval[i] = words[i].Bval
	}

	l.mask()

	return l
}

// TimeType selects the representation of a Time.
type TimeType int32

// Time types.
const (
	ScaledRealTime TimeType = 1
	SimTime        TimeType = 2
	SuppressTime   TimeType = 3
)

// Time is a simulation time in VPI layout.
type Time struct {
	Type TimeType
	High uint32
	Low  uint32
	Real float64
}

// NewSimTime builds a vpiSimTime value from a tick count.
func NewSimTime(ticks uint64) Time {
	return Time{Type: SimTime, High: uint32(ticks >> 32), Low: uint32(ticks)}
}

// Ticks returns the tick count of a vpiSimTime or vpiScaledRealTime value.
func (t Time) Ticks() uint64 {
	if t.Type == ScaledRealTime {
		return uint64(t.Real)
	}

	return uint64(t.High)<<32 | uint64(t.Low)
}
