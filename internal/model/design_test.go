package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDesign_HasOneBitTypes(t *testing.T) {
	d := NewDesign()
	assert.Equal(t, 2, d.NumTypespecs())

	for _, kind := range []TypeKind{KindLogic, KindBit} {
		id, ok := d.Lookup(Typespec{Kind: kind})
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, d.Typespec(id).Kind)
	}

	_, ok := d.Lookup(Typespec{Kind: KindInt})
	assert.False(t, ok)
	assert.Equal(t, 2, d.NumTypespecs(), "lookup does not add")
}

func TestDesign_InternAddsInnerVectors(t *testing.T) {
	tests := []struct {
		name  string
		spec  Typespec
		added int
	}{
		{"scalar", Typespec{Kind: KindLogic}, 0},
		{"one dim", Typespec{Kind: KindLogic, Dims: []Range{{3, 0}}}, 1},
		{"two dims", Typespec{Kind: KindLogic, Dims: []Range{{2, 0}, {1, 0}}}, 2},
		{"signed", Typespec{Kind: KindBit, Signed: true, Dims: []Range{{7, 0}}}, 1},
		{"named two dims", Typespec{Kind: KindBit, Name: "word_t", Dims: []Range{{1, 0}, {15, 0}}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDesign()
			before := d.NumTypespecs()

			id := d.Intern(tt.spec)
			assert.Equal(t, before+tt.added, d.NumTypespecs())

			for inner := id; len(d.Typespec(inner).Dims) > 0; {
				next := d.Dropped(inner)
				require.True(t, next.IsValid())

				ts := d.Typespec(next)
				assert.Len(t, ts.Dims, len(d.Typespec(inner).Dims)-1)
				assert.False(t, ts.Signed)
				assert.Empty(t, ts.Name)

				inner = next
			}

			assert.Equal(t, before+tt.added, d.NumTypespecs(), "dropping dimensions does not add")
		})
	}
}
