// Package controller provides output adapters for displaying design
// hierarchies, properties, values and run results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// Output formats accepted by the simple UI.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// PropsFunc looks up the property record of a full name.
type PropsFunc func(fullName string) (m.PropertyRecord, error)

// CheckResult is the outcome of verifying one expectation file.
type CheckResult struct {
	File   string
	Report domain.CheckReport
	Err    error
}

// Passed reports whether the file loaded and every expectation held.
func (r CheckResult) Passed() bool {
	return r.Err == nil && r.Report.Passed()
}

// UI defines how command results are shown.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayTree(ctx context.Context, nodes []m.Node) error
	DisplayProperties(ctx context.Context, records []m.PropertyRecord) error
	DisplayValue(ctx context.Context, name string, value m.Value) error
	DisplayRun(ctx context.Context, summary domain.RunSummary, samples []adapter.Sample) error
	DisplayCheck(ctx context.Context, results []CheckResult) error
	// Browse shows nodes interactively when the output is a terminal.
	Browse(ctx context.Context, nodes []m.Node, props PropsFunc) error
}

// NewUI picks the interactive UI for terminals and the simple one
// otherwise. format is read at display time.
func NewUI(cmd *cobra.Command, tty bool, format func() string) UI {
	simple := NewSimpleUI(cmd, format)
	if !tty {
		return simple
	}

	return NewTUI(simple)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
