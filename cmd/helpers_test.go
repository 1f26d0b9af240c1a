package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/controller"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

const (
	scopeDesign    = "../testdata/scope.yaml"
	varModelDesign = "../testdata/var_model.yaml"
)

// newTestRoot builds a fresh root command with sub attached and its output
// captured.
func newTestRoot(sub *cobra.Command) (*cobra.Command, *bytes.Buffer) {
	root := newRootCmd()
	root.AddCommand(sub)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	return root, &out
}

// run executes args on root with logging sent to a temporary file.
func run(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()

	root.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "vpiscope.log")}, args...))

	return root.ExecuteContext(context.Background())
}

// execute runs args on a fresh root command with sub attached, printing
// through a simple UI into the returned string.
func execute(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()

	root, out := newTestRoot(sub)
	swapUI(t, controller.NewSimpleUI(root, outputFormat))

	err := run(t, root, args...)

	return out.String(), err
}

// swapUI installs u for the duration of the test.
func swapUI(t *testing.T, u controller.UI) {
	t.Helper()

	original := ui
	ui = u

	t.Cleanup(func() { ui = original })
}

type mockDesignLoader struct {
	mock.Mock
}

func (l *mockDesignLoader) Load(ctx context.Context, path string) (*m.Design, error) {
	args := l.Called(ctx, path)
	design, _ := args.Get(0).(*m.Design)

	return design, args.Error(1)
}

func (l *mockDesignLoader) Parse(data []byte) (*m.Design, error) {
	args := l.Called(data)
	design, _ := args.Get(0).(*m.Design)

	return design, args.Error(1)
}

var _ adapter.DesignLoader = (*mockDesignLoader)(nil)

type mockUI struct {
	mock.Mock
}

func (u *mockUI) DisplayTree(ctx context.Context, nodes []m.Node) error {
	return u.Called(ctx, nodes).Error(0)
}

func (u *mockUI) DisplayProperties(ctx context.Context, records []m.PropertyRecord) error {
	return u.Called(ctx, records).Error(0)
}

func (u *mockUI) DisplayValue(ctx context.Context, name string, value m.Value) error {
	return u.Called(ctx, name, value).Error(0)
}

func (u *mockUI) DisplayRun(ctx context.Context, summary domain.RunSummary, samples []adapter.Sample) error {
	return u.Called(ctx, summary, samples).Error(0)
}

func (u *mockUI) DisplayCheck(ctx context.Context, results []controller.CheckResult) error {
	return u.Called(ctx, results).Error(0)
}

func (u *mockUI) Browse(ctx context.Context, nodes []m.Node, props controller.PropsFunc) error {
	return u.Called(ctx, nodes, props).Error(0)
}

var _ controller.UI = (*mockUI)(nil)
