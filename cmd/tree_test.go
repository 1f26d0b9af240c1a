package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func TestTreeCmd_Table(t *testing.T) {
	out, err := execute(t, newTreeCmd(), "tree", "-d", scopeDesign)
	require.NoError(t, err)

	for _, want := range []string{"top", "vpiModule", "clk", "vpiNet", "named_for[0]", "named_for[1]", "gen_for_var", "TOP_PARAM"} {
		assert.Contains(t, out, want)
	}
}

func TestTreeCmd_YAML(t *testing.T) {
	out, err := execute(t, newTreeCmd(), "tree", "-d", scopeDesign, "-o", "yaml")
	require.NoError(t, err)

	var nodes []m.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "top", nodes[0].FullName)

	require.NotEmpty(t, nodes[0].Children)
	assert.Equal(t, "top.t", nodes[0].Children[0].FullName)
}

func TestTreeCmd_NoDesign(t *testing.T) {
	_, err := execute(t, newTreeCmd(), "tree", "-d", "")
	require.ErrorIs(t, err, errNoDesign)
}

func TestTreeCmd_InteractiveBrowses(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "tree --tui", args: []string{"tree", "--tui"}},
		{name: "browse", args: []string{"browse"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			browser := &mockUI{}
			browser.On("Browse", mock.Anything, mock.MatchedBy(func(nodes []m.Node) bool {
				return len(nodes) == 1 && nodes[0].Name == "top"
			}), mock.MatchedBy(func(props controller.PropsFunc) bool {
				rec, err := props("top.t.clk")
				return err == nil && rec.Type == "vpiNet"
			})).Return(nil)

			root, _ := newTestRoot(newTreeCmd())
			root.AddCommand(newBrowseCmd())
			swapUI(t, browser)

			require.NoError(t, run(t, root, append(tc.args, "-d", scopeDesign)...))
			browser.AssertExpectations(t)
			browser.AssertNotCalled(t, "DisplayTree", mock.Anything, mock.Anything)
		})
	}
}

func TestBrowseCmd_FallsBackToTree(t *testing.T) {
	out, err := execute(t, newBrowseCmd(), "browse", "-d", scopeDesign)
	require.NoError(t, err)
	assert.Regexp(t, `(?i)objects \d+`, out)
}
