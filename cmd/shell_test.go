package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
)

func newTestShell(t *testing.T) (*shellSession, *bytes.Buffer) {
	t.Helper()

	engine, _, err := openEngine(context.Background(), varModelDesign, nil)
	require.NoError(t, err)

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return newShellSession(engine, controller.NewSimpleUI(cmd, nil), &out), &out
}

func TestShellSession_PutPersists(t *testing.T) {
	session, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, session.exec(ctx, "put top.t.a_p21 3f hex"))
	assert.Equal(t, "top.t.a_p21 = 3f (vpiHexStrVal)\n", out.String())

	out.Reset()
	require.NoError(t, session.exec(ctx, "get top.t.a_p21 bin"))
	assert.Equal(t, "top.t.a_p21 = 111111 (vpiBinStrVal)\n", out.String())

	out.Reset()
	require.NoError(t, session.exec(ctx, "  get   top.t.int_var  "))
	assert.Equal(t, "top.t.int_var = -5 (vpiIntVal)\n", out.String())

	out.Reset()
	require.NoError(t, session.exec(ctx, "handles"))
	assert.Equal(t, "0 live handle(s)\n", out.String())
}

func TestShellSession_Inspection(t *testing.T) {
	session, out := newTestShell(t)
	ctx := context.Background()

	require.NoError(t, session.exec(ctx, "tree"))
	assert.Contains(t, out.String(), "int_var")

	out.Reset()
	require.NoError(t, session.exec(ctx, "props top.t.int_var top.t.clk"))
	assert.Contains(t, out.String(), "vpiIntVar")
	assert.Contains(t, out.String(), "top.t.clk")

	out.Reset()
	require.NoError(t, session.exec(ctx, "help"))
	assert.Contains(t, out.String(), "put NAME VALUE [FORMAT]")

	require.NoError(t, session.exec(ctx, ""))
}

func TestShellSession_Errors(t *testing.T) {
	session, _ := newTestShell(t)
	ctx := context.Background()

	require.ErrorIs(t, session.exec(ctx, "quit"), errQuit)
	require.ErrorIs(t, session.exec(ctx, "exit"), errQuit)
	require.ErrorIs(t, session.exec(ctx, "get top.t.nope"), domain.ErrNotFound)
	require.ErrorIs(t, session.exec(ctx, "put top.t.LOCAL_PARAM 1 int"), domain.ErrUnsupported)
	require.ErrorContains(t, session.exec(ctx, "get top.t.int_var roman"), `unknown value format "roman"`)
	require.ErrorContains(t, session.exec(ctx, "put top.t.int_var 1 roman"), `unknown value format "roman"`)
	require.ErrorContains(t, session.exec(ctx, "get"), "usage: get")
	require.ErrorContains(t, session.exec(ctx, "put top.t.int_var"), "usage: put")
	require.ErrorContains(t, session.exec(ctx, "props"), "usage: props")
	require.ErrorContains(t, session.exec(ctx, "step"), `unknown command "step"`)
}

func TestShellSession_Complete(t *testing.T) {
	session, _ := newTestShell(t)

	assert.Equal(t, []string{"props", "put"}, session.complete("p"))
	assert.Equal(t, []string{"handles", "help"}, session.complete("h"))
	assert.Empty(t, session.complete("x"))
	assert.Len(t, session.complete(""), len(shellCommands))
}
