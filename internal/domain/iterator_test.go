package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func TestIterate_ScopeChildren(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	tests := []struct {
		kind m.ObjectType
		want []string
	}{
		{m.TypeVariables, []string{"top_var", "gen_var", "top_array"}},
		{m.TypeReg, []string{"top_var", "gen_var"}},
		{m.TypeNet, []string{"clk", "top_net"}},
		{m.TypeRegArray, []string{"top_array"}},
		{m.TypeMemory, []string{"top_array"}},
		{m.TypeParameter, []string{"TOP_PARAM"}},
		{m.TypeInternalScope, []string{"named_for[1]", "named_for[0]"}},
		{m.TypePort, []string{"clk"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			iter := e.Iterate(tt.kind, scope)
			require.False(t, iter.IsNull(), "%v", e.LastError())
			assert.Equal(t, tt.want, scanAll(t, e, iter))
		})
	}

	assert.Equal(t, 1, e.LiveHandles(), "only the scope handle is left")
}

func TestIterate_EmptyIsNullWithoutError(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	assert.True(t, e.Iterate(m.TypeModule, scope).IsNull())
	assert.NoError(t, e.LastError())

	assert.True(t, e.Iterate(m.TypeNetArray, scope).IsNull())
	assert.NoError(t, e.LastError())
}

func TestIterate_TopModules(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	iter := e.Iterate(m.TypeModule, 0)
	require.False(t, iter.IsNull())
	assert.Equal(t, []string{"top"}, scanAll(t, e, iter))

	assert.True(t, e.Iterate(m.TypeNet, 0).IsNull())
	require.ErrorIs(t, e.LastError(), ErrInvalidHandle)
}

func TestIterate_GenScopes(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	gen := mustHandle(t, e, "top.t.named_for[1]")
	defer e.ReleaseHandle(gen)

	assert.Equal(t, "vpiGenScope", e.GetStr(m.PropType, gen))

	iter := e.Iterate(m.TypeInternalScope, gen)
	require.False(t, iter.IsNull())
	assert.Equal(t, []string{"normal_assign"}, scanAll(t, e, iter))

	iter = e.Iterate(m.TypeReg, gen)
	require.False(t, iter.IsNull())
	assert.Equal(t, []string{"gen_for_var"}, scanAll(t, e, iter))
}

func TestScan_ExhaustionReleasesIterator(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	iter := e.Iterate(m.TypeNet, scope)
	require.False(t, iter.IsNull())

	for range 2 {
		h, err := e.Scan(iter)
		require.NoError(t, err)
		require.False(t, h.IsNull())
		e.ReleaseHandle(h)
	}

	h, err := e.Scan(iter)
	require.NoError(t, err)
	assert.True(t, h.IsNull())
	assert.NoError(t, e.LastError())

	_, err = e.Scan(iter)
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestScan_RejectsNonIterators(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	_, err := e.Scan(scope)
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestIterate_UnsupportedKind(t *testing.T) {
	e, _ := newTestEngine(t, scopeDesign)

	scope := mustHandle(t, e, "top.t")
	defer e.ReleaseHandle(scope)

	assert.True(t, e.Iterate(m.TypeCallback, scope).IsNull())
	require.ErrorIs(t, e.LastError(), ErrUnsupported)

	info, ok := e.ChkError()
	require.True(t, ok)
	assert.Equal(t, m.LevelWarning, info.Level)
}

func TestIterate_Ranges(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	rangesOf := func(name string) [][2]int32 {
		h := mustHandle(t, e, name)
		defer e.ReleaseHandle(h)

		iter := e.Iterate(m.TypeRange, h)
		if iter.IsNull() {
			return nil
		}

		var out [][2]int32

		for {
			r, err := e.Scan(iter)
			require.NoError(t, err)

			if r.IsNull() {
				return out
			}

			left := e.HandleOf(m.TypeLeftRange, r)
			right := e.HandleOf(m.TypeRightRange, r)

			lv, err := e.GetValue(left, m.IntVal)
			require.NoError(t, err)

			rv, err := e.GetValue(right, m.IntVal)
			require.NoError(t, err)

			out = append(out, [2]int32{lv.Int, rv.Int})

			e.ReleaseHandle(left)
			e.ReleaseHandle(right)
			e.ReleaseHandle(r)
		}
	}

	assert.Equal(t, [][2]int32{{2, 0}}, rangesOf("top.t.a_u2"))
	assert.Equal(t, [][2]int32{{2, 0}, {1, 0}}, rangesOf("top.t.a_p21"))
	assert.Equal(t, [][2]int32{{1, 0}, {2, 0}}, rangesOf("top.t.a_p0u12"))
	assert.Equal(t, [][2]int32{{0, 1}, {0, 2}}, rangesOf("top.t.s_p12"))
	assert.Nil(t, rangesOf("top.t.onereg"))
	assert.Nil(t, rangesOf("top.t.a_p1[0]"))

	assert.Equal(t, 0, e.LiveHandles())
}

func TestIterate_Members(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	members := func(name string) []string {
		h := mustHandle(t, e, name)
		defer e.ReleaseHandle(h)

		iter := e.Iterate(m.TypeMember, h)
		if iter.IsNull() {
			return nil
		}

		return scanAll(t, e, iter)
	}

	assert.Equal(t, []string{"s.s_field", "s.p_field"}, members("top.t.s"))
	assert.Equal(t, []string{"u.field0", "u.field1"}, members("top.t.u"))
	assert.Equal(t, []string{"s_p1[0]", "s_p1[1]"}, members("top.t.s_p1"))
	assert.Equal(t, []string{"s_u2[1].s_field", "s_u2[1].p_field"}, members("top.t.s_u2[1]"))
	assert.Nil(t, members("top.t.onereg"))
}

func TestIterate_Bits(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.a_p21")
	defer e.ReleaseHandle(h)

	iter := e.Iterate(m.TypeBit, h)
	require.False(t, iter.IsNull())
	assert.Equal(t, []string{"a_p21[2]", "a_p21[1]", "a_p21[0]"}, scanAll(t, e, iter))

	bit := mustHandle(t, e, "top.t.a_p1[1]")
	defer e.ReleaseHandle(bit)

	assert.True(t, e.Iterate(m.TypeBit, bit).IsNull())
	assert.NoError(t, e.LastError())
}

func TestIterate_TypespecMembers(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	h := mustHandle(t, e, "top.t.s")
	defer e.ReleaseHandle(h)

	ts := e.HandleOf(m.TypeTypespec, h)
	require.False(t, ts.IsNull())
	defer e.ReleaseHandle(ts)

	assert.Equal(t, "vpiStructTypespec", e.GetStr(m.PropType, ts))
	assert.Equal(t, "struct_test", e.GetStr(m.PropName, ts))
	assert.Equal(t, int32(4), e.Get(m.PropSize, ts))

	iter := e.Iterate(m.TypeMember, ts)
	require.False(t, iter.IsNull())

	first, err := e.Scan(iter)
	require.NoError(t, err)
	assert.Equal(t, "vpiTypespecMember", e.GetStr(m.PropType, first))
	assert.Equal(t, "s_field", e.GetStr(m.PropName, first))
	assert.Equal(t, int32(1), e.Get(m.PropSize, first))

	owner := e.HandleOf(m.TypeParent, first)
	require.False(t, owner.IsNull())
	assert.Equal(t, "struct_test", e.GetStr(m.PropName, owner))

	second, err := e.Scan(iter)
	require.NoError(t, err)
	assert.Equal(t, "p_field", e.GetStr(m.PropName, second))

	memberType := e.HandleOf(m.TypeTypespec, second)
	require.False(t, memberType.IsNull())
	assert.Equal(t, "vpiLogicTypespec", e.GetStr(m.PropType, memberType))
	assert.Equal(t, int32(3), e.Get(m.PropSize, memberType))

	last, err := e.Scan(iter)
	require.NoError(t, err)
	assert.True(t, last.IsNull())
}
