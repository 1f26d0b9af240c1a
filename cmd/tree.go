package cmd

import (
	"github.com/spf13/cobra"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
)

const tuiFlagName = "tui"

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the design hierarchy",
		Long: `Print every module, generate scope, net, variable, parameter and struct
member of the design, walked through the engine's iterators.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interactive, err := cmd.Flags().GetBool(tuiFlagName)
			if err != nil {
				return err
			}

			return showTree(cmd, interactive)
		},
	}

	cmd.Flags().Bool(tuiFlagName, false, "browse the hierarchy interactively")

	return cmd
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the design hierarchy interactively",
		Long:  "Browse the design hierarchy and the properties of each object in a terminal UI.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showTree(cmd, true)
		},
	}
}

func showTree(cmd *cobra.Command, interactive bool) error {
	ctx := cmd.Context()

	inspector, err := openInspector(ctx)
	if err != nil {
		return err
	}

	nodes, err := inspector.Tree()
	if err != nil {
		return err
	}

	if interactive {
		return ui.Browse(ctx, nodes, controller.PropsFunc(inspector.Properties))
	}

	return ui.DisplayTree(ctx, nodes)
}

func init() {
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newBrowseCmd())
}
