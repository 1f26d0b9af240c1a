package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Mismatch is one expected property that did not hold.
type Mismatch struct {
	Lookup string
	Field  string
	Want   string
	Got    string
}

func (mm Mismatch) String() string {
	return fmt.Sprintf("%s %s: want %s, got %s", mm.Lookup, mm.Field, mm.Want, mm.Got)
}

// CheckReport is the outcome of checking a set of expectations.
type CheckReport struct {
	Checked    int
	Mismatches []Mismatch
	Diff       string
}

// Passed reports whether every expectation held.
func (r CheckReport) Passed() bool {
	return len(r.Mismatches) == 0
}

// Checker compares objects of a design against expectations.
type Checker interface {
	Check(expect []m.Expectation) (CheckReport, error)
}

type checker struct {
	inspector Inspector
}

// NewChecker constructs a Checker over engine.
func NewChecker(engine Engine) Checker {
	return &checker{inspector: NewInspector(engine)}
}

type field struct {
	name string
	want string
	got  string
}

func (c *checker) Check(expect []m.Expectation) (CheckReport, error) {
	var (
		report    CheckReport
		want, got []string
	)

	for _, exp := range expect {
		report.Checked++

		fields := c.compare(exp)
		for _, f := range fields {
			want = append(want, fmt.Sprintf("%s %s: %s\n", exp.Lookup, f.name, f.want))
			got = append(got, fmt.Sprintf("%s %s: %s\n", exp.Lookup, f.name, f.got))

			if f.want != f.got {
				report.Mismatches = append(report.Mismatches, Mismatch{Lookup: exp.Lookup, Field: f.name, Want: f.want, Got: f.got})
			}
		}
	}

	if report.Passed() {
		return report, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        want,
		B:        got,
		FromFile: "expected",
		ToFile:   "actual",
		Context:  1,
	})
	if err != nil {
		return report, fmt.Errorf("failed to render diff: %w", err)
	}

	report.Diff = diff

	return report, nil
}

// compare lists every field exp sets with its expected and actual text.
func (c *checker) compare(exp m.Expectation) []field {
	rec, err := c.inspector.Properties(exp.Lookup)
	if err != nil {
		return []field{{name: "lookup", want: "found", got: err.Error()}}
	}

	var fields []field

	str := func(name string, want *string, got string) {
		if want != nil {
			fields = append(fields, field{name: name, want: *want, got: got})
		}
	}
	boolean := func(name string, want *bool, got bool) {
		if want != nil {
			fields = append(fields, field{name: name, want: strconv.FormatBool(*want), got: strconv.FormatBool(got)})
		}
	}
	integer := func(name string, want *int32, got int32) {
		if want != nil {
			fields = append(fields, field{name: name, want: strconv.Itoa(int(*want)), got: strconv.Itoa(int(got))})
		}
	}

	str("name", exp.Name, rec.Name)
	str("fullname", exp.FullName, rec.FullName)
	str("type", exp.Type, rec.Type)
	integer("size", exp.Size, rec.Size)
	boolean("scalar", exp.Scalar, rec.Scalar)
	boolean("vector", exp.Vector, rec.Vector)
	boolean("array", exp.Array, rec.Array)
	boolean("structMember", exp.StructMember, rec.StructMember)
	boolean("arrayMember", exp.ArrayMember, rec.ArrayMember)
	boolean("packedArrayMember", exp.PackedArrayMember, rec.PackedArrayMember)
	boolean("signed", exp.Signed, rec.Signed)
	boolean("automatic", exp.Automatic, rec.Automatic)
	boolean("constant", exp.Constant, rec.Constant)
	integer("visibility", exp.Visibility, rec.Visibility)
	integer("arrayType", exp.ArrayType, rec.ArrayType)
	str("module", exp.Module, rec.Module)
	str("scope", exp.Scope, rec.Scope)
	str("typespec", exp.Typespec, rec.Typespec)
	str("typespecName", exp.TypespecName, rec.TypespecName)

	if exp.Value != nil {
		fields = append(fields, c.compareValue(exp))
	}

	return fields
}

func (c *checker) compareValue(exp m.Expectation) field {
	f := field{name: "value", want: *exp.Value}

	format := m.HexStrVal
	if exp.Format != "" {
		parsed, ok := m.ParseFormat(exp.Format)
		if !ok {
			f.got = "unknown format " + strconv.Quote(exp.Format)
			return f
		}

		format = parsed
	}

	v, err := c.inspector.Value(exp.Lookup, format)
	if err != nil {
		f.got = err.Error()
		return f
	}

	f.got = v.String()
	if format != m.StringVal {
		f.want = strings.ToLower(f.want)
		f.got = strings.ToLower(f.got)
	}

	return f
}
