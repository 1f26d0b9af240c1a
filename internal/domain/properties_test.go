package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// TestProperties_ExpectationFiles checks every object listed in the
// testdata expectation files.
func TestProperties_ExpectationFiles(t *testing.T) {
	for _, path := range []string{
		"../../testdata/var_model_expect.yaml",
		"../../testdata/scope_expect.yaml",
	} {
		t.Run(path, func(t *testing.T) {
			file, err := adapter.NewExpectationStore().Load(context.Background(), path)
			require.NoError(t, err)

			e, _ := newTestEngine(t, file.Design)

			report, err := NewChecker(e).Check(file.Expect)
			require.NoError(t, err)

			assert.Equal(t, len(file.Expect), report.Checked)
			assert.True(t, report.Passed(), "mismatches:\n%s", report.Diff)
			assert.Equal(t, 0, e.LiveHandles())
		})
	}
}

func TestGet_DefaultsOnVariables(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.onereg")
	defer e.ReleaseHandle(h)

	assert.Equal(t, int32(m.TypeReg), e.Get(m.PropType, h))
	assert.Equal(t, int32(1), e.Get(m.PropSize, h))
	assert.Equal(t, int32(-1), e.Get(m.PropArrayType, h))
	assert.Equal(t, m.PublicVis, e.Get(m.PropVisibility, h))
	assert.Equal(t, int32(0), e.Get(m.PropTopModule, h))
	assert.Equal(t, int32(0), e.Get(m.PropAutomatic, h))
	assert.Equal(t, int32(0), e.Get(m.PropConstantVariable, h))
	assert.NoError(t, e.LastError())
}

func TestGet_UnsupportedProperties(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.onereg")
	defer e.ReleaseHandle(h)

	for _, prop := range []m.Property{m.PropIsRandomized, m.PropRandType, m.PropAllocScheme, m.Property(9999)} {
		assert.Equal(t, int32(0), e.Get(prop, h))
		require.ErrorIs(t, e.LastError(), ErrUnsupported, "property %d", prop)
	}

	assert.Equal(t, "", e.GetStr(m.Property(9999), h))
	require.ErrorIs(t, e.LastError(), ErrUnsupported)
}

func TestGet_Scopes(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	top := mustHandle(t, e, "top")
	defer e.ReleaseHandle(top)

	inner := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(inner)

	assert.Equal(t, int32(1), e.Get(m.PropTopModule, top))
	assert.Equal(t, int32(0), e.Get(m.PropTopModule, inner))
	assert.Equal(t, "t", e.GetStr(m.PropDefName, inner))

	parent := e.HandleOf(m.TypeScope, inner)
	require.False(t, parent.IsNull())
	assert.Equal(t, "top", e.GetStr(m.PropName, parent))
	e.ReleaseHandle(parent)

	assert.True(t, e.HandleOf(m.TypeScope, top).IsNull())
	require.ErrorIs(t, e.LastError(), ErrNotFound)

	// a module's vpiModule is the module instantiating it
	mod := e.HandleOf(m.TypeModule, inner)
	require.False(t, mod.IsNull())
	assert.Equal(t, "top", e.GetStr(m.PropName, mod))
	e.ReleaseHandle(mod)
}

func TestGet_Ports(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	iter := e.Iterate(m.TypePort, scope)
	require.False(t, iter.IsNull())

	port, err := e.Scan(iter)
	require.NoError(t, err)
	defer e.ReleaseHandle(port)

	assert.Equal(t, "vpiPort", e.GetStr(m.PropType, port))
	assert.Equal(t, "top.t.clk", e.GetStr(m.PropFullName, port))
	assert.Equal(t, m.DirInput, e.Get(m.PropDirection, port))
	assert.Equal(t, int32(1), e.Get(m.PropSize, port))

	low := e.HandleOf(m.TypeLowConn, port)
	require.False(t, low.IsNull())
	assert.Equal(t, "vpiNet", e.GetStr(m.PropType, low))
	assert.Equal(t, "top.t.clk", e.GetStr(m.PropFullName, low))
	e.ReleaseHandle(low)
}

func TestHandleOf_Parents(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	field := mustHandle(t, e, "top.t.s.s_field")
	defer e.ReleaseHandle(field)

	parent := e.HandleOf(m.TypeParent, field)
	require.False(t, parent.IsNull())
	assert.Equal(t, "s", e.GetStr(m.PropName, parent))
	e.ReleaseHandle(parent)

	scope := e.HandleOf(m.TypeScope, field)
	require.False(t, scope.IsNull())
	assert.Equal(t, "t", e.GetStr(m.PropName, scope))
	e.ReleaseHandle(scope)

	decl := mustHandle(t, e, "top.t.onereg")
	defer e.ReleaseHandle(decl)

	parent = e.HandleOf(m.TypeParent, decl)
	require.False(t, parent.IsNull())
	assert.Equal(t, "vpiModule", e.GetStr(m.PropType, parent))
	e.ReleaseHandle(parent)
}

func TestHandleOf_Unavailable(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.onereg")
	defer e.ReleaseHandle(h)

	assert.True(t, e.HandleOf(m.TypeBit, h).IsNull())
	require.ErrorIs(t, e.LastError(), ErrNotFound)

	assert.True(t, e.HandleOf(m.TypeExpr, h).IsNull())
	require.ErrorIs(t, e.LastError(), ErrNotFound)

	assert.True(t, e.HandleOf(m.TypeLeftRange, h).IsNull())
	require.ErrorIs(t, e.LastError(), ErrNotFound)

	assert.True(t, e.HandleOf(m.TypeCallback, h).IsNull())
	require.ErrorIs(t, e.LastError(), ErrUnsupported)

	assert.True(t, e.HandleOf(m.TypeModule, 0).IsNull())
	require.ErrorIs(t, e.LastError(), ErrInvalidHandle)

	assert.True(t, e.HandleOf(m.TypeSysTfCall, 0).IsNull())
	require.ErrorIs(t, e.LastError(), ErrNotFound)
}

func TestHandleOf_VarRange(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.a_p21")
	defer e.ReleaseHandle(h)

	left := e.HandleOf(m.TypeLeftRange, h)
	require.False(t, left.IsNull())
	defer e.ReleaseHandle(left)

	assert.Equal(t, "vpiConstant", e.GetStr(m.PropType, left))
	assert.Equal(t, int32(32), e.Get(m.PropSize, left))

	v, err := e.GetValue(left, m.DecStrVal)
	require.NoError(t, err)
	assert.Equal(t, "2", v.Str)

	_, err = e.PutValue(left, m.Value{Format: m.IntVal, Int: 5}, nil, m.NoDelay)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestGet_Signedness(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	signed := map[string]bool{
		"top.t.a_p1":         false,
		"top.t.a_sp1":        true,
		"top.t.a_sp1[0]":     false,
		"top.t.int_var":      true,
		"top.t.byte_var":     true,
		"top.t.integer_var":  true,
		"top.t.onebit":       false,
		"top.t.s":            false,
		"top.t.LOCAL_PARAM":  false,
		"top.t.int_var[0]":   false,
		"top.t.shortint_var": true,
	}

	for name, want := range signed {
		h := mustHandle(t, e, name)
		assert.Equal(t, boolProp(want), e.Get(m.PropSigned, h), name)
		e.ReleaseHandle(h)
	}
}

func TestCompat_LegacyNames(t *testing.T) {
	compat, err := ParseCompat([]string{"VPI_COMPATIBILITY_VERSION_1364v2005"})
	require.NoError(t, err)

	e, _ := newTestEngine(t, varModelDesign, WithCompat(compat))

	bit := mustHandle(t, e, "top.t.onebit")
	defer e.ReleaseHandle(bit)

	assert.Equal(t, int32(m.TypeReg), e.Get(m.PropType, bit))
	assert.Equal(t, "vpiReg", e.GetStr(m.PropType, bit))

	arr := mustHandle(t, e, "top.t.a_u2")
	defer e.ReleaseHandle(arr)

	assert.Equal(t, "vpiRegArray", e.GetStr(m.PropType, arr))
	assert.Equal(t, "1364v2005", e.Compat().Version)
}
