package domain

import (
	"fmt"
	"log/slog"
	"strings"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// NativeVersion is the behaviour used when no compatibility selector is set.
const NativeVersion = "1800v2017"

var knownVersions = map[string]bool{
	"1364v1995": true,
	"1364v2001": true,
	"1364v2005": true,
	"1800v2005": true,
	"1800v2009": true,
	"1800v2012": true,
}

// Compat is the selected VPI compatibility mode.
type Compat struct {
	Version    string
	Legacy1364 bool
}

const compatPrefix = "VPI_COMPATIBILITY_VERSION_"

// ParseCompat validates the compatibility selectors. At most one distinct
// version may be given, with or without the symbol prefix, and a single
// selector is accepted with a warning.
func ParseCompat(selectors []string) (Compat, error) {
	versions := make([]string, 0, len(selectors))
	seen := make(map[string]bool, len(selectors))

	for _, s := range selectors {
		v := strings.TrimPrefix(strings.TrimSpace(s), compatPrefix)
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true
		versions = append(versions, v)
	}

	switch len(versions) {
	case 0:
		return Compat{Version: NativeVersion}, nil
	case 1:
	default:
		return Compat{}, fmt.Errorf("Only one VPI_COMPATIBILITY_VERSION symbol definition is allowed: %w", ErrConfiguration) //nolint:staticcheck // fixed diagnostic text
	}

	v := versions[0]

	slog.Warn(fmt.Sprintf("VPI_COMPATIBILITY_VERSION_%s is unsupported, possible undefined behavior", v),
		"known", knownVersions[v])

	return Compat{Version: v, Legacy1364: strings.HasPrefix(v, "1364")}, nil
}

// objectType maps a native object type to the one reported in this mode.
// Verilog-2005 has no 2-state bit variables; they read as regs.
func (c Compat) objectType(t m.ObjectType) m.ObjectType {
	if c.Legacy1364 && t == m.TypeBitVar {
		return m.TypeReg
	}

	return t
}

// typeName is the symbol name reported for t in this mode.
func (c Compat) typeName(t m.ObjectType) string {
	if c.Legacy1364 {
		return t.LegacyString()
	}

	return t.String()
}
