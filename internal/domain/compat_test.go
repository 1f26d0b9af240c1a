package domain

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func TestParseCompat(t *testing.T) {
	c, err := ParseCompat(nil)
	require.NoError(t, err)
	assert.Equal(t, NativeVersion, c.Version)
	assert.False(t, c.Legacy1364)

	c, err = ParseCompat([]string{"VPI_COMPATIBILITY_VERSION_1800v2012"})
	require.NoError(t, err)
	assert.Equal(t, "1800v2012", c.Version)
	assert.False(t, c.Legacy1364)

	c, err = ParseCompat([]string{"1364v2001"})
	require.NoError(t, err)
	assert.True(t, c.Legacy1364)

	_, err = ParseCompat([]string{"VPI_COMPATIBILITY_VERSION_1364v2005", "VPI_COMPATIBILITY_VERSION_1800v2009"})
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "Only one VPI_COMPATIBILITY_VERSION symbol definition is allowed")
}

func TestParseCompat_DuplicateSelectors(t *testing.T) {
	tests := []struct {
		name      string
		selectors []string
		want      string
		wantErr   bool
	}{
		{"bare and prefixed", []string{"1800v2012", "VPI_COMPATIBILITY_VERSION_1800v2012"}, "1800v2012", false},
		{"repeated bare", []string{"1364v2005", "1364v2005"}, "1364v2005", false},
		{"padded", []string{" 1800v2009 ", "VPI_COMPATIBILITY_VERSION_1800v2009"}, "1800v2009", false},
		{"blank only", []string{"", "  "}, NativeVersion, false},
		{"distinct after prefix", []string{"1800v2012", "VPI_COMPATIBILITY_VERSION_1800v2009"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCompat(tt.selectors)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConfiguration)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Version)
		})
	}
}

func TestParseCompat_WarnsOnSelector(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		selector string
		want     string
	}{
		{"1364v2005", "VPI_COMPATIBILITY_VERSION_1364v2005 is unsupported, possible undefined behavior"},
		{"VPI_COMPATIBILITY_VERSION_1800v2009", "VPI_COMPATIBILITY_VERSION_1800v2009 is unsupported, possible undefined behavior"},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			var buf bytes.Buffer
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

			_, err := ParseCompat([]string{tt.selector})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "level=WARN")
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	_, err := ParseCompat(nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestCompat_ObjectType(t *testing.T) {
	native := Compat{Version: NativeVersion}
	legacy := Compat{Version: "1364v2005", Legacy1364: true}

	assert.Equal(t, m.TypeBitVar, native.objectType(m.TypeBitVar))
	assert.Equal(t, m.TypeReg, legacy.objectType(m.TypeBitVar))
	assert.Equal(t, m.TypeIntVar, legacy.objectType(m.TypeIntVar))

	assert.Equal(t, "vpiArrayVar", native.typeName(m.TypeRegArray))
	assert.Equal(t, "vpiRegArray", legacy.typeName(m.TypeRegArray))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err   error
		kind  string
		level int32
	}{
		{fmt.Errorf("x: %w", ErrNotFound), "not_found", m.LevelNotice},
		{fmt.Errorf("x: %w", ErrUnsupported), "unsupported", m.LevelWarning},
		{fmt.Errorf("x: %w", ErrInvalidFormat), "invalid_format", m.LevelError},
		{fmt.Errorf("x: %w", ErrInvalidHandle), "invalid_handle", m.LevelError},
		{fmt.Errorf("x: %w", ErrConfiguration), "configuration", m.LevelError},
		{ErrInternal, "internal", m.LevelInternal},
		{errors.New("disk on fire"), "internal", m.LevelInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, errorKind(tt.err), tt.err.Error())
		assert.Equal(t, tt.level, errorLevel(tt.err), tt.err.Error())
	}
}
