package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func loadDesign(t *testing.T, path string) *m.Design {
	t.Helper()

	loader, err := NewDesignLoader()
	require.NoError(t, err)

	design, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	return design
}

func TestDesignLoader_Scope(t *testing.T) {
	d := loadDesign(t, "../../testdata/scope.yaml")

	require.Len(t, d.Tops(), 1)
	top := d.Tops()[0]
	assert.Equal(t, "top", d.Scope(top).Name)

	tID := d.ChildScope(top, "t")
	require.True(t, tID.IsValid())
	assert.Equal(t, "top.t", d.ScopeFullName(tID))
	assert.Equal(t, "t", d.Scope(tID).DefName)

	require.Len(t, d.Scope(tID).Ports, 1)
	assert.Equal(t, "clk", d.Scope(tID).Ports[0].Name)
	assert.Equal(t, m.DirInput, d.Scope(tID).Ports[0].Direction)

	gen := d.ChildScope(tID, "named_for[1]")
	require.True(t, gen.IsValid())
	assert.Equal(t, m.ScopeGen, d.Scope(gen).Kind)
	assert.Equal(t, tID, d.EnclosingModule(gen))

	param := d.Element(d.ElementIn(tID, "TOP_PARAM"))
	require.NotNil(t, param)
	assert.Equal(t, m.ClassParameter, param.Class)
	assert.Equal(t, m.KindUntyped, d.Typespec(param.Type).Kind)
	assert.Equal(t, 32, d.PackedWidth(param.Type))

	arr := d.Element(d.ElementIn(tID, "top_array"))
	require.NotNil(t, arr)
	assert.Equal(t, m.KindArray, d.Typespec(arr.Type).Kind)
	assert.Equal(t, 2, d.ElemCount(arr.Type))
	assert.Equal(t, 8, d.StorageWidth(arr.Type))
}

func TestDesignLoader_VarModelWidths(t *testing.T) {
	d := loadDesign(t, "../../testdata/var_model.yaml")
	tID := d.ChildScope(d.Tops()[0], "t")

	tests := []struct {
		name  string
		width int
		count int
	}{
		{"s", 4, 1},
		{"s_emb", 11, 1},
		{"s_p1", 8, 1},
		{"s_p12", 24, 1},
		{"s_u2", 4, 3},
		{"s_p3u1", 16, 2},
		{"u", 4, 1},
		{"a_p21", 6, 1},
		{"a_p0u12", 1, 6},
		{"int_var", 32, 1},
		{"byte_var", 8, 1},
		{"longint_var", 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem := d.Element(d.ElementIn(tID, tt.name))
			require.NotNil(t, elem)
			assert.Equal(t, tt.width, d.PackedWidth(d.Leaf(elem.Type)))
			assert.Equal(t, tt.count, d.ElemCount(elem.Type))
		})
	}
}

func TestDesignLoader_TypedefNames(t *testing.T) {
	d := loadDesign(t, "../../testdata/var_model.yaml")
	tID := d.ChildScope(d.Tops()[0], "t")

	typeOf := func(name string) m.TypespecID {
		return d.Element(d.ElementIn(tID, name)).Type
	}

	assert.Equal(t, "struct_test", d.TypespecName(typeOf("s")))
	assert.Equal(t, "struct_test", d.TypespecName(typeOf("s_p1")))
	assert.Equal(t, "struct_test", d.TypespecName(typeOf("s_u2")))
	assert.Equal(t, "union_test", d.TypespecName(typeOf("u")))
	assert.Equal(t, "", d.TypespecName(typeOf("s_emb")))
	assert.Equal(t, m.KindPackedArray, d.Typespec(typeOf("s_p12")).Kind)
	assert.True(t, d.IsSigned(typeOf("a_sp1")))
	assert.Equal(t, m.LocalVis, d.Element(d.ElementIn(tID, "LOCAL_PARAM")).Visibility)
}

func TestDesignLoader_Rejects(t *testing.T) {
	loader, err := NewDesignLoader()
	require.NoError(t, err)

	tests := []struct {
		name string
		yaml string
	}{
		{"no scopes", "typedefs: []\n"},
		{"unknown kind", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type: {kind: float}\n"},
		{"bad dimension", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type: {kind: logic, packed: [[1]]}\n"},
		{"unknown field", "scopes:\n  - name: top\n    color: red\n"},
		{"unknown typedef", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type: {ref: missing}\n"},
		{"untyped variable", "scopes:\n  - name: top\n    elements:\n      - name: v\n"},
		{"array of real", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type: {kind: real, unpacked: [[1, 0]]}\n"},
		{"real struct member", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type:\n          kind: struct\n          members:\n            - name: r\n              type: {kind: real}\n"},
		{"duplicate name", "scopes:\n  - name: top\n    elements:\n      - name: v\n        type: {kind: bit}\n      - name: v\n        type: {kind: bit}\n"},
		{"gen at top", "scopes:\n  - name: g\n    kind: gen\n"},
		{"port without element", "scopes:\n  - name: top\n    ports:\n      - name: clk\n        direction: input\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDesignLoader_MissingFile(t *testing.T) {
	loader, err := NewDesignLoader()
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), "does-not-exist.yaml")
	assert.Error(t, err)
}

func TestExpectationStore_ResolvesDesignPath(t *testing.T) {
	store := NewExpectationStore()

	file, err := store.Load(context.Background(), "../../testdata/var_model_expect.yaml")
	require.NoError(t, err)

	assert.Equal(t, "../../testdata/var_model.yaml", file.Design)
	assert.NotEmpty(t, file.Expect)
}
