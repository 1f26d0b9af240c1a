// Package cmd provides the root command and CLI setup for vpiscope.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/controller"
)

var designLoader adapter.DesignLoader
var expectationStore adapter.ExpectationStore
var expectationFinder adapter.ExpectationFinder
var ui controller.UI

// compatFlag holds --compat selectors; more than one is a configuration error.
var compatFlag []string

func init() {
	loader, err := adapter.NewDesignLoader()
	cobra.CheckErr(err)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout), outputFormat)
	designLoader = loader
	expectationStore = adapter.NewExpectationStore()
	expectationFinder = adapter.NewLocalExpectationFinder()
}

const designHelp = `Designs are elaborated hierarchies described in YAML: scopes, typedefs and
elements with their packed and unpacked dimensions. Names are looked up the
way a VPI application sees them, e.g. top.t.s_p12[0][1].s_field.`

const rootLongDescription = `vpiscope loads an elaborated HDL design and serves it through a VPI-style,
handle-based introspection engine: lookups by name and index, iteration,
properties, value access and callbacks.

` + designHelp

const patternsHelp = `Supports Go-style path patterns:
  - FILE           a single expectation file
  - ./testdata     every *_expect.yaml file in a directory
  - ./testdata/... recursively scan a directory`

const checkLongDescription = `Verify object properties and values against expectation files.

` + patternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpiscope",
		Short: "VPI-style design introspection tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(designFlagName, "d", "", "elaborated design file (YAML)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(designFlagName), designKey)

	cmd.PersistentFlags().StringArrayVar(&compatFlag, compatFlagName, nil, "VPI compatibility version, e.g. 1364v2005 (at most one)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(compatFlagName), compatKey)

	cmd.PersistentFlags().StringP(outputFlagName, "o", defaultOutputFormat, "output format: table or yaml")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFormatKey)

	cmd.PersistentFlags().String(logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolP(verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
