package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

const shellPrompt = "vpiscope> "

const shellHelp = `Commands:
  tree                        print the design hierarchy
  props NAME...               show the properties of objects
  get NAME [FORMAT]           read a value (default obj)
  put NAME VALUE [FORMAT]     write a value and read it back (default bin)
  handles                     number of live handles
  help                        this text
  quit                        leave the shell`

var errQuit = errors.New("quit")

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Query and modify the design interactively",
		Long: `Open the design once and read commands from the terminal. Values written
with put persist for the rest of the session.

` + shellHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			engine, _, err := openEngine(ctx, viper.GetString(designKey), viper.GetStringSlice(compatKey))
			if err != nil {
				return err
			}

			return runShell(ctx, newShellSession(engine, ui, cmd.OutOrStdout()))
		},
	}
}

func runShell(ctx context.Context, session *shellSession) error {
	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetCompleter(session.complete)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := ln.Prompt(shellPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}

		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)

		err = session.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}

		if err != nil {
			_, _ = fmt.Fprintf(session.out, "error: %v\n", err)
		}
	}
}

// shellSession executes shell commands against one engine.
type shellSession struct {
	engine    domain.Engine
	inspector domain.Inspector
	ui        controller.UI
	out       io.Writer
}

func newShellSession(engine domain.Engine, u controller.UI, out io.Writer) *shellSession {
	return &shellSession{engine: engine, inspector: domain.NewInspector(engine), ui: u, out: out}
}

var shellCommands = []string{"get", "handles", "help", "props", "put", "quit", "tree"}

func (s *shellSession) complete(line string) []string {
	var out []string

	for _, c := range shellCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}

	return out
}

func (s *shellSession) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name, args := fields[0], fields[1:]

	slog.Debug("shell command", "command", name, "args", args)

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		_, err := fmt.Fprintln(s.out, shellHelp)
		return err
	case "handles":
		_, err := fmt.Fprintf(s.out, "%d live handle(s)\n", s.engine.LiveHandles())
		return err
	case "tree":
		nodes, err := s.inspector.Tree()
		if err != nil {
			return err
		}

		return s.ui.DisplayTree(ctx, nodes)
	case "props":
		if len(args) == 0 {
			return errors.New("usage: props NAME [NAME...]")
		}

		records := make([]m.PropertyRecord, 0, len(args))

		for _, a := range args {
			rec, err := s.inspector.Properties(a)
			if err != nil {
				return err
			}

			records = append(records, rec)
		}

		return s.ui.DisplayProperties(ctx, records)
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: get NAME [FORMAT]")
		}

		return s.get(ctx, args[0], formatArg(args[1:], defaultGetFormat))
	case "put":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: put NAME VALUE [FORMAT]")
		}

		format := formatArg(args[2:], defaultPutFormat)

		f, ok := m.ParseFormat(format)
		if !ok {
			return fmt.Errorf("unknown value format %q", format)
		}

		if err := s.inspector.Put(args[0], args[1], f); err != nil {
			return err
		}

		return s.get(ctx, args[0], format)
	default:
		return fmt.Errorf("unknown command %q, expected one of %s", name, strings.Join(shellCommands, ", "))
	}
}

func (s *shellSession) get(ctx context.Context, name, format string) error {
	f, ok := m.ParseFormat(format)
	if !ok {
		return fmt.Errorf("unknown value format %q", format)
	}

	value, err := s.inspector.Value(name, f)
	if err != nil {
		return err
	}

	return s.ui.DisplayValue(ctx, name, value)
}

func formatArg(args []string, fallback string) string {
	if len(args) == 0 {
		return fallback
	}

	return args[0]
}

func init() {
	rootCmd.AddCommand(newShellCmd())
}
