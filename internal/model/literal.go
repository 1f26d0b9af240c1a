package model

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ParseLiteral converts a Verilog-style number such as 4'b10xz, 'hff,
// 8'sd-3 or a plain decimal to a vector of width bits. Unsized values are
// extended, sized values are resized to width.
func ParseLiteral(s string, width int) (Logic, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return Logic{}, fmt.Errorf("empty literal")
	}

	tick := strings.IndexByte(s, '\'')
	if tick < 0 {
		return parseDecimal(s, width)
	}

	size := width
	if tick > 0 {
		n, err := strconv.Atoi(s[:tick])
		if err != nil || n <= 0 {
			return Logic{}, fmt.Errorf("invalid literal size in %q", s)
		}

		size = n
	}

	rest := s[tick+1:]

	signed := false
	if strings.HasPrefix(rest, "s") || strings.HasPrefix(rest, "S") {
		signed = true
		rest = rest[1:]
	}

	if rest == "" {
		return Logic{}, fmt.Errorf("missing base in %q", s)
	}

	base, digits := strings.ToLower(rest[:1]), rest[1:]

	var (
		v   Logic
		err error
	)

	switch base {
	case "b":
		v, err = ParseDigits(digits, 2, size)
	case "o":
		v, err = ParseDigits(digits, 8, size)
	case "h":
		v, err = ParseDigits(digits, 16, size)
	case "d":
		v, err = parseDecimal(digits, size)
	default:
		return Logic{}, fmt.Errorf("unknown base %q in %q", base, s)
	}

	if err != nil {
		return Logic{}, err
	}

	return v.Resize(width, signed), nil
}

// ParseDigits reads binary, octal or hex digits (x, z and ? allowed) into
// a vector of width bits. Missing high digits are zero; an unknown leading
// digit extends to fill the width.
func ParseDigits(digits string, radix, width int) (Logic, error) {
	bits := map[int]int{2: 1, 8: 3, 16: 4}[radix]
	if bits == 0 {
		return Logic{}, fmt.Errorf("unsupported radix %d", radix)
	}

	digits = strings.ToLower(strings.ReplaceAll(digits, "_", ""))
	if digits == "" {
		return Logic{}, fmt.Errorf("no digits")
	}

	l := NewLogic(width)
	pos := 0

	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]

		var fill int32 = -1

		switch c {
		case 'x':
			fill = ScalarX
		case 'z', '?':
			fill = ScalarZ
		}

		if fill >= 0 {
			for k := range bits {
				l.SetBit(pos+k, fill)
			}

			pos += bits

			continue
		}

		d, err := strconv.ParseUint(string(c), radix, 8)
		if err != nil {
			return Logic{}, fmt.Errorf("invalid digit %q for radix %d", c, radix)
		}

		for k := range bits {
			if d&(1<<uint(k)) != 0 {
				l.SetBit(pos+k, Scalar1)
			}
		}

		pos += bits
	}

	if lead := l.Bit(pos - 1); pos < width && (lead == ScalarX || lead == ScalarZ) {
		for i := pos; i < width; i++ {
			l.SetBit(i, lead)
		}
	}

	return l, nil
}

func parseDecimal(s string, width int) (Logic, error) {
	switch strings.ToLower(s) {
	case "x":
		return FilledLogic(width, ScalarX), nil
	case "z", "?":
		return FilledLogic(width, ScalarZ), nil
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Logic{}, fmt.Errorf("invalid decimal %q", s)
	}

	return LogicFromBig(width, v), nil
}
