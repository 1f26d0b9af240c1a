package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

const (
	formatFlagName = "format"

	defaultGetFormat = "obj"
	defaultPutFormat = "bin"
)

const formatHelp = "value format: bin, oct, dec, hex, scalar, int, real, string, vector, obj or a vpi*Val name"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Read the value of an object",
		Long: `Read the initial value of an object in the requested format. The obj
format picks the natural format of the object's type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := valueFormat(cmd)
			if err != nil {
				return err
			}

			inspector, err := openInspector(ctx)
			if err != nil {
				return err
			}

			value, err := inspector.Value(args[0], format)
			if err != nil {
				return err
			}

			return ui.DisplayValue(ctx, args[0], value)
		},
	}

	cmd.Flags().StringP(formatFlagName, "f", defaultGetFormat, formatHelp)

	return cmd
}

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put NAME VALUE",
		Short: "Write a value and read it back",
		Long: `Write VALUE to an object with no delay and print the value read back in
the same format. Selects only change their own bits.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := valueFormat(cmd)
			if err != nil {
				return err
			}

			inspector, err := openInspector(ctx)
			if err != nil {
				return err
			}

			if err := inspector.Put(args[0], args[1], format); err != nil {
				return err
			}

			value, err := inspector.Value(args[0], format)
			if err != nil {
				return err
			}

			return ui.DisplayValue(ctx, args[0], value)
		},
	}

	cmd.Flags().StringP(formatFlagName, "f", defaultPutFormat, formatHelp)

	return cmd
}

func valueFormat(cmd *cobra.Command) (m.Format, error) {
	name, err := cmd.Flags().GetString(formatFlagName)
	if err != nil {
		return 0, err
	}

	format, ok := m.ParseFormat(name)
	if !ok {
		return 0, fmt.Errorf("unknown value format %q", name)
	}

	return format, nil
}

func init() {
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newPutCmd())
}
