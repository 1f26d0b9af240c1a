package domain

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// writeTarget identifies the storage a deferred write lands on. Real and
// string elements use a width of -1.
type writeTarget struct {
	elem   m.ElementID
	offset int
	width  int
}

func (e *engine) GetValue(h m.Handle, format m.Format) (m.Value, error) {
	e.begin()

	v, err := e.readValue(h, format)
	if err != nil {
		e.fail(err)
		return m.Value{}, err
	}

	return v, nil
}

func (e *engine) readValue(h m.Handle, format m.Format) (m.Value, error) {
	obj, err := e.object(h)
	if err != nil {
		return m.Value{}, err
	}

	switch o := obj.(type) {
	case *varObj:
		return e.varValue(o, format)
	case constObj:
		return encodeLogic(m.LogicFromInt64(32, o.value), format, true, m.KindInt)
	case callObj:
		if format == m.ObjTypeVal || format == o.frame.ret.Format {
			return o.frame.ret, nil
		}
	}

	return m.Value{}, fmt.Errorf("%s has no value: %w", obj.kind(), ErrInvalidFormat)
}

// varValue reads the current value of a view in the requested format.
func (e *engine) varValue(v *varObj, format m.Format) (m.Value, error) {
	t := e.design.Typespec(v.ts)

	switch t.Kind {
	case m.KindArray:
		return m.Value{}, fmt.Errorf("%s is an unpacked array: %w", e.fullName(v), ErrInvalidFormat)
	case m.KindReal:
		r, err := e.store.ReadReal(v.elem)
		if err != nil {
			return m.Value{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}

		return encodeReal(r, format)
	case m.KindString:
		s, err := e.store.ReadString(v.elem)
		if err != nil {
			return m.Value{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}

		switch format {
		case m.StringVal, m.ObjTypeVal:
			return m.Value{Format: m.StringVal, Str: s}, nil
		case m.SuppressVal:
			return m.Value{Format: m.SuppressVal}, nil
		default:
			return m.Value{}, fmt.Errorf("%s on a string: %w", format, ErrInvalidFormat)
		}
	}

	l, err := e.store.ReadBits(v.elem, v.offset, e.design.PackedWidth(v.ts))
	if err != nil {
		return m.Value{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return encodeLogic(l, format, e.design.IsSigned(v.ts), t.Kind)
}

func encodeReal(r float64, format m.Format) (m.Value, error) {
	switch format {
	case m.RealVal, m.ObjTypeVal:
		return m.Value{Format: m.RealVal, Real: r}, nil
	case m.IntVal:
		return m.Value{Format: m.IntVal, Int: int32(math.Round(r))}, nil
	case m.DecStrVal:
		return m.Value{Format: m.DecStrVal, Str: strconv.FormatFloat(r, 'f', -1, 64)}, nil
	case m.SuppressVal:
		return m.Value{Format: m.SuppressVal}, nil
	case m.StrengthVal:
		return m.Value{}, fmt.Errorf("%s: %w", format, ErrUnsupported)
	default:
		return m.Value{}, fmt.Errorf("%s on a real: %w", format, ErrInvalidFormat)
	}
}

func encodeLogic(l m.Logic, format m.Format, signed bool, kind m.TypeKind) (m.Value, error) {
	if format == m.ObjTypeVal {
		format = nativeFormat(kind, l.Width)
	}

	switch format {
	case m.BinStrVal:
		return m.Value{Format: format, Str: l.BinString()}, nil
	case m.OctStrVal:
		return m.Value{Format: format, Str: l.OctString()}, nil
	case m.DecStrVal:
		return m.Value{Format: format, Str: l.DecString(signed)}, nil
	case m.HexStrVal:
		return m.Value{Format: format, Str: l.HexString()}, nil
	case m.ScalarVal:
		return m.Value{Format: format, Scalar: l.Bit(0)}, nil
	case m.IntVal:
		return m.Value{Format: format, Int: int32(l.Int64(signed))}, nil
	case m.StringVal:
		return m.Value{Format: format, Str: logicString(l)}, nil
	case m.VectorVal:
		return m.Value{Format: format, Vector: m.LogicToVector(l)}, nil
	case m.SuppressVal:
		return m.Value{Format: format}, nil
	case m.StrengthVal:
		return m.Value{}, fmt.Errorf("%s: %w", format, ErrUnsupported)
	default:
		return m.Value{}, fmt.Errorf("%s on a packed value: %w", format, ErrInvalidFormat)
	}
}

// nativeFormat is the format vpiObjTypeVal resolves to.
func nativeFormat(kind m.TypeKind, width int) m.Format {
	switch {
	case kind.IntrinsicSigned() && kind != m.KindLongInt:
		return m.IntVal
	case width == 1:
		return m.ScalarVal
	default:
		return m.VectorVal
	}
}

// logicString reads the vector as 8-bit characters, most significant
// first, skipping NUL bytes.
func logicString(l m.Logic) string {
	var b strings.Builder

	for hi := (l.Width+7)/8*8 - 1; hi > 0; hi -= 8 {
		c := byte(l.Slice(hi-7, 8).Uint64())
		if c != 0 {
			b.WriteByte(c)
		}
	}

	return b.String()
}

func stringLogic(s string, width int) m.Logic {
	l := m.NewLogic(width)

	for i := range len(s) {
		offset := 8 * (len(s) - 1 - i)
		if offset >= width {
			continue
		}

		l.Splice(offset, m.LogicFromUint64(min(8, width-offset), uint64(s[i])))
	}

	return l
}

func (e *engine) PutValue(h m.Handle, val m.Value, when *m.Time, flags m.DelayMode) (m.Handle, error) {
	e.begin()

	ack, err := e.putValue(h, val, when, flags)
	if err != nil {
		e.fail(err)
		return 0, err
	}

	return ack, nil
}

func (e *engine) putValue(h m.Handle, val m.Value, when *m.Time, flags m.DelayMode) (m.Handle, error) {
	obj, err := e.object(h)
	if err != nil {
		return 0, err
	}

	mode := flags.Mode()

	switch mode {
	case m.ForceFlag, m.ReleaseFlag:
		return 0, fmt.Errorf("force and release: %w", ErrUnsupported)
	case m.CancelEvent:
		ev, ok := obj.(schedEventObj)
		if !ok {
			return 0, fmt.Errorf("cancel on a %s handle: %w", obj.kind(), ErrInvalidHandle)
		}

		if e.sched.Cancel(ev.event) {
			e.forget(ev.event)
		}

		return 0, nil
	}

	switch o := obj.(type) {
	case callObj:
		return 0, e.setReturn(o.frame, val)
	case constObj:
		return 0, fmt.Errorf("constants are read-only: %w", ErrUnsupported)
	case *varObj:
		return e.putVar(o, val, when, flags)
	default:
		return 0, fmt.Errorf("%s has no value: %w", obj.kind(), ErrInvalidFormat)
	}
}

func (e *engine) putVar(v *varObj, val m.Value, when *m.Time, flags m.DelayMode) (m.Handle, error) {
	elem := e.design.Element(v.elem)
	if elem.Class == m.ClassParameter || elem.Constant {
		return 0, fmt.Errorf("%s is read-only: %w", e.fullName(v), ErrUnsupported)
	}

	target, apply, err := e.encodeWrite(v, val)
	if err != nil {
		return 0, err
	}

	switch flags.Mode() {
	case 0, m.NoDelay:
		if _, err := apply(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInternal, err)
		}

		return 0, nil
	case m.InertialDelay, m.TransportDelay, m.PureTransportDelay:
	default:
		return 0, fmt.Errorf("delay mode %d: %w", flags.Mode(), ErrInvalidFormat)
	}

	if when == nil || when.Type == m.SuppressTime {
		return 0, fmt.Errorf("delayed write needs a time: %w", ErrInvalidFormat)
	}

	if flags.Mode() == m.InertialDelay {
		for _, id := range e.pending[target] {
			e.sched.Cancel(id)
		}

		delete(e.pending, target)
	}

	var id adapter.EventID

	id = e.sched.ScheduleAt(e.sched.Now()+when.Ticks(), func() {
		e.forget(id)

		if _, err := apply(); err != nil {
			slog.Warn("deferred write failed", "object", e.fullName(v), "error", err)
		}
	})
	e.pending[target] = append(e.pending[target], id)

	slog.Debug("scheduled write", "object", e.fullName(v), "event", uint64(id), "delay", when.Ticks())

	if flags&m.ReturnEvent == 0 {
		return 0, nil
	}

	return e.handles.acquire(schedEventObj{event: id}), nil
}

// forget drops a scheduled write from the pending table.
func (e *engine) forget(id adapter.EventID) {
	for target, ids := range e.pending {
		if i := slices.Index(ids, id); i >= 0 {
			ids = slices.Delete(ids, i, i+1)
			if len(ids) == 0 {
				delete(e.pending, target)
			} else {
				e.pending[target] = ids
			}

			return
		}
	}
}

// encodeWrite converts val for v and returns the write to apply.
func (e *engine) encodeWrite(v *varObj, val m.Value) (writeTarget, func() (bool, error), error) {
	t := e.design.Typespec(v.ts)

	switch t.Kind {
	case m.KindArray:
		return writeTarget{}, nil, fmt.Errorf("%s is an unpacked array: %w", e.fullName(v), ErrInvalidFormat)
	case m.KindReal:
		var r float64

		switch val.Format {
		case m.RealVal:
			r = val.Real
		case m.IntVal:
			r = float64(val.Int)
		case m.DecStrVal:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(val.Str), 64)
			if err != nil {
				return writeTarget{}, nil, fmt.Errorf("%q is not a real: %w", val.Str, ErrInvalidFormat)
			}

			r = parsed
		default:
			return writeTarget{}, nil, fmt.Errorf("%s on a real: %w", val.Format, ErrInvalidFormat)
		}

		return writeTarget{elem: v.elem, width: -1}, func() (bool, error) { return e.store.WriteReal(v.elem, r) }, nil
	case m.KindString:
		if val.Format != m.StringVal {
			return writeTarget{}, nil, fmt.Errorf("%s on a string: %w", val.Format, ErrInvalidFormat)
		}

		s := val.Str

		return writeTarget{elem: v.elem, width: -1}, func() (bool, error) { return e.store.WriteString(v.elem, s) }, nil
	}

	width := e.design.PackedWidth(v.ts)

	l, err := decodeLogic(val, width)
	if err != nil {
		return writeTarget{}, nil, err
	}

	if e.design.IsTwoState(v.ts) {
		l.ClearUnknown()
	}

	target := writeTarget{elem: v.elem, offset: v.offset, width: width}

	return target, func() (bool, error) { return e.store.WriteBits(v.elem, v.offset, l) }, nil
}

func decodeLogic(val m.Value, width int) (m.Logic, error) {
	var (
		l   m.Logic
		err error
	)

	switch val.Format {
	case m.BinStrVal:
		l, err = m.ParseDigits(val.Str, 2, width)
	case m.OctStrVal:
		l, err = m.ParseDigits(val.Str, 8, width)
	case m.HexStrVal:
		l, err = m.ParseDigits(val.Str, 16, width)
	case m.DecStrVal:
		l, err = m.ParseLiteral(val.Str, width)
	case m.ScalarVal:
		if val.Scalar < m.Scalar0 || val.Scalar > m.ScalarX {
			return m.Logic{}, fmt.Errorf("scalar %d: %w", val.Scalar, ErrInvalidFormat)
		}

		if width != 1 {
			return m.Logic{}, fmt.Errorf("scalar on a %d-bit value: %w", width, ErrInvalidFormat)
		}

		l = m.NewLogic(width)
		l.SetBit(0, val.Scalar)
	case m.IntVal:
		l = m.LogicFromInt64(width, int64(val.Int))
	case m.StringVal:
		l = stringLogic(val.Str, width)
	case m.VectorVal:
		l = m.VectorToLogic(val.Vector, width)
	case m.StrengthVal:
		return m.Logic{}, fmt.Errorf("%s: %w", val.Format, ErrUnsupported)
	default:
		return m.Logic{}, fmt.Errorf("%s on a packed value: %w", val.Format, ErrInvalidFormat)
	}

	if err != nil {
		return m.Logic{}, fmt.Errorf("%q: %w: %w", val.Str, ErrInvalidFormat, err)
	}

	return l, nil
}
