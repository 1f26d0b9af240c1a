package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"vpiscope.dev/pkg/vpiscope/internal/domain"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the build version, the Go version and the native VPI compatibility version.",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("vpi version\t", domain.NativeVersion)

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			cmd.Println("tool version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
