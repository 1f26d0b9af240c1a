package cmd

import (
	"github.com/spf13/cobra"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func newPropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "props NAME...",
		Short: "Show the properties of objects",
		Long: `Show every property and accessor of the named objects: type, size,
scalar/vector/array flags, member flags, module, scope and typespec.

` + designHelp,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inspector, err := openInspector(ctx)
			if err != nil {
				return err
			}

			records := make([]m.PropertyRecord, 0, len(args))

			for _, name := range args {
				rec, err := inspector.Properties(name)
				if err != nil {
					return err
				}

				records = append(records, rec)
			}

			return ui.DisplayProperties(ctx, records)
		},
	}
}

func init() {
	rootCmd.AddCommand(newPropsCmd())
}
