package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	format func() string
}

// NewSimpleUI creates a new SimpleUI. A nil format means tables.
func NewSimpleUI(cmd *cobra.Command, format func() string) *SimpleUI {
	if format == nil {
		format = func() string { return FormatTable }
	}

	return &SimpleUI{cmd: cmd, format: format}
}

func (s *SimpleUI) wantsYAML() bool {
	return strings.EqualFold(strings.TrimSpace(s.format()), FormatYAML)
}

// DisplayTree prints the hierarchy one object per row, indented by depth.
func (s *SimpleUI) DisplayTree(ctx context.Context, nodes []m.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.wantsYAML() {
		return s.printYAML(nodes)
	}

	table, buf := newTable([]string{"Name", "Type", "Size"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	count := 0

	walkNodes(nodes, 0, func(n *m.Node, depth int) {
		table.Append([]string{strings.Repeat("  ", depth) + n.Name, n.Type, strconv.Itoa(int(n.Size))})

		count++
	})

	table.SetFooter([]string{fmt.Sprintf("Objects %d", count), "", ""})
	table.Render()

	return s.printf("%s", buf.String())
}

// DisplayProperties prints one property table per record.
func (s *SimpleUI) DisplayProperties(ctx context.Context, records []m.PropertyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.wantsYAML() {
		return s.printYAML(records)
	}

	for i, rec := range records {
		if i > 0 {
			if err := s.printf("\n"); err != nil {
				return err
			}
		}

		if err := s.printf("%s\n%s", rec.FullName, renderProperties(rec)); err != nil {
			return err
		}
	}

	return nil
}

func renderProperties(rec m.PropertyRecord) string {
	table, buf := newTable([]string{"Property", "Value"})

	rows := [][2]string{
		{"vpiName", rec.Name},
		{"vpiFullName", rec.FullName},
		{"vpiType", rec.Type},
		{"vpiSize", strconv.Itoa(int(rec.Size))},
		{"vpiScalar", strconv.FormatBool(rec.Scalar)},
		{"vpiVector", strconv.FormatBool(rec.Vector)},
		{"vpiArray", strconv.FormatBool(rec.Array)},
		{"vpiStructUnionMember", strconv.FormatBool(rec.StructMember)},
		{"vpiArrayMember", strconv.FormatBool(rec.ArrayMember)},
		{"vpiPackedArrayMember", strconv.FormatBool(rec.PackedArrayMember)},
		{"vpiSigned", strconv.FormatBool(rec.Signed)},
		{"vpiAutomatic", strconv.FormatBool(rec.Automatic)},
		{"vpiConstantVariable", strconv.FormatBool(rec.Constant)},
		{"vpiVisibility", strconv.Itoa(int(rec.Visibility))},
		{"vpiArrayType", strconv.Itoa(int(rec.ArrayType))},
		{"vpiModule", rec.Module},
		{"vpiScope", rec.Scope},
		{"vpiTypespec", rec.Typespec},
		{"vpiTypespec vpiName", rec.TypespecName},
	}

	for _, row := range rows {
		table.Append(row[:])
	}

	table.Render()

	return buf.String()
}

// DisplayValue prints one value read.
func (s *SimpleUI) DisplayValue(ctx context.Context, name string, value m.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.wantsYAML() {
		return s.printYAML(map[string]string{
			"name":   name,
			"format": value.Format.String(),
			"value":  value.String(),
		})
	}

	return s.printf("%s = %s (%s)\n", name, value.String(), value.Format)
}

type runOutput struct {
	Steps      int                `yaml:"steps"`
	Time       uint64             `yaml:"time"`
	Deliveries map[string]int     `yaml:"deliveries,omitempty"`
	Metrics    map[string]float64 `yaml:"metrics,omitempty"`
}

// DisplayRun prints the run summary, delivery counts and gathered metrics.
func (s *SimpleUI) DisplayRun(ctx context.Context, summary domain.RunSummary, samples []adapter.Sample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.wantsYAML() {
		out := runOutput{Steps: summary.Steps, Time: summary.Time, Deliveries: summary.Deliveries}
		if len(samples) > 0 {
			out.Metrics = make(map[string]float64, len(samples))
			for _, sample := range samples {
				out.Metrics[sample.Series] = sample.Value
			}
		}

		return s.printYAML(out)
	}

	if err := s.printf("Ran %d step(s), simulation time %d\n", summary.Steps, summary.Time); err != nil {
		return err
	}

	if len(summary.Deliveries) > 0 {
		names := make([]string, 0, len(summary.Deliveries))
		for name := range summary.Deliveries {
			names = append(names, name)
		}

		sort.Strings(names)

		table, buf := newTable([]string{"Object", "Changes"})
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

		for _, name := range names {
			table.Append([]string{name, strconv.Itoa(summary.Deliveries[name])})
		}

		table.Render()

		if err := s.printf("\n%s", buf.String()); err != nil {
			return err
		}
	}

	if len(samples) == 0 {
		return nil
	}

	table, buf := newTable([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, sample := range samples {
		table.Append([]string{sample.Series, strconv.FormatFloat(sample.Value, 'f', -1, 64)})
	}

	table.Render()

	return s.printf("\n%s", buf.String())
}

type checkOutput struct {
	File       string   `yaml:"file"`
	Checked    int      `yaml:"checked"`
	Passed     bool     `yaml:"passed"`
	Error      string   `yaml:"error,omitempty"`
	Mismatches []string `yaml:"mismatches,omitempty"`
}

// DisplayCheck prints a summary table followed by the diff of every failed
// file.
func (s *SimpleUI) DisplayCheck(ctx context.Context, results []CheckResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.wantsYAML() {
		out := make([]checkOutput, 0, len(results))
		for _, r := range results {
			o := checkOutput{File: r.File, Checked: r.Report.Checked, Passed: r.Passed()}
			if r.Err != nil {
				o.Error = r.Err.Error()
			}

			for _, mm := range r.Report.Mismatches {
				o.Mismatches = append(o.Mismatches, mm.String())
			}

			out = append(out, o)
		}

		return s.printYAML(out)
	}

	table, buf := newTable([]string{"File", "Checked", "Mismatches", "Status"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER,
	})

	failed := 0

	for _, r := range results {
		status := "PASS"
		if !r.Passed() {
			status = "FAIL"
			failed++
		}

		table.Append([]string{
			r.File,
			strconv.Itoa(r.Report.Checked),
			strconv.Itoa(len(r.Report.Mismatches)),
			status,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Files %d", len(results)), "", "", fmt.Sprintf("Failed %d", failed)})
	table.Render()

	if err := s.printf("%s", buf.String()); err != nil {
		return err
	}

	for _, r := range results {
		if r.Passed() {
			continue
		}

		if err := s.printFailure(r); err != nil {
			return err
		}
	}

	return nil
}

func (s *SimpleUI) printFailure(r CheckResult) error {
	if err := s.printf("\n%s:\n", r.File); err != nil {
		return err
	}

	if r.Err != nil {
		return s.printf("  error: %v\n", r.Err)
	}

	for _, mm := range r.Report.Mismatches {
		if err := s.printf("  %s\n", mm); err != nil {
			return err
		}
	}

	if r.Report.Diff == "" {
		return nil
	}

	return s.printf("\n%s", r.Report.Diff)
}

// Browse prints the tree; the simple UI has no interactive mode.
func (s *SimpleUI) Browse(ctx context.Context, nodes []m.Node, _ PropsFunc) error {
	return s.DisplayTree(ctx, nodes)
}

func (s *SimpleUI) printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return s.printf("%s", data)
}

func (s *SimpleUI) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
	return err
}

func newTable(header []string) (*tablewriter.Table, *bytes.Buffer) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table, &buf
}

// walkNodes visits nodes depth first in display order.
func walkNodes(nodes []m.Node, depth int, fn func(n *m.Node, depth int)) {
	for i := range nodes {
		fn(&nodes[i], depth)
		walkNodes(nodes[i].Children, depth+1, fn)
	}
}
