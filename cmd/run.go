package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vpiscope.dev/pkg/vpiscope/internal/adapter"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
	m "vpiscope.dev/pkg/vpiscope/internal/model"
	pkg "vpiscope.dev/pkg/vpiscope/pkg"
)

const runLongDescription = `Drive a minimal simulation loop over the design: optionally toggle a clock
every period, advance the event queue time slot by time slot and deliver
value-change callbacks for the watched objects.

Deliveries can be journaled to a file, and the engine's handle, callback
and error counters printed at the end.`

var runWatchFlag []string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a clocked simulation loop with value-change callbacks",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP(stepsFlagName, "n", defaultRunSteps, "maximum number of time slots to run")
	bindFlagToConfig(cmd.Flags().Lookup(stepsFlagName), runStepsKey)

	cmd.Flags().String(clockFlagName, "", "scalar object toggled every period, e.g. top.t.clk")
	bindFlagToConfig(cmd.Flags().Lookup(clockFlagName), runClockKey)

	cmd.Flags().Uint64(periodFlagName, defaultRunPeriod, "clock half period in time units")
	bindFlagToConfig(cmd.Flags().Lookup(periodFlagName), runPeriodKey)

	cmd.Flags().StringArrayVarP(&runWatchFlag, watchFlagName, "w", nil, "object to watch for value changes (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(watchFlagName), runWatchKey)

	cmd.Flags().String(journalFlagName, "", "write every delivery to this journal file")
	bindFlagToConfig(cmd.Flags().Lookup(journalFlagName), runJournalKey)

	cmd.Flags().Bool(metricsFlagName, false, "print engine metrics after the run")
	bindFlagToConfig(cmd.Flags().Lookup(metricsFlagName), runMetricsKey)
}

func runSimulation(cmd *cobra.Command) error {
	ctx := cmd.Context()

	var (
		opts    []domain.Option
		metrics *adapter.PromMetrics
	)

	if viper.GetBool(runMetricsKey) {
		pm, err := adapter.NewPromMetrics(prometheus.NewRegistry())
		if err != nil {
			return err
		}

		metrics = pm
		opts = append(opts, domain.WithMetrics(pm))
	}

	engine, queue, err := openEngine(ctx, viper.GetString(designKey), viper.GetStringSlice(compatKey), opts...)
	if err != nil {
		return err
	}

	var journal pkg.Journal[m.Delivery]

	if path := viper.GetString(runJournalKey); path != "" {
		journal, err = pkg.NewJournal[m.Delivery](path)
		if err != nil {
			return err
		}

		defer func() {
			if err := journal.Close(); err != nil {
				slog.Warn("failed to close journal", "path", path, "error", err)
			}
		}()
	}

	steps := viper.GetInt(runStepsKey)
	if steps < 0 {
		return fmt.Errorf("--%s must not be negative", stepsFlagName)
	}

	summary, err := domain.NewRunner(engine, queue, journal).Run(ctx, domain.RunConfig{
		Steps:  steps,
		Clock:  viper.GetString(runClockKey),
		Period: viper.GetUint64(runPeriodKey),
		Watch:  viper.GetStringSlice(runWatchKey),
	})
	if err != nil {
		return err
	}

	if journal != nil {
		slog.Info("journaled deliveries", "path", journal.Path(), "count", journal.Len())
	}

	var samples []adapter.Sample

	if metrics != nil {
		samples, err = metrics.Samples()
		if err != nil {
			return err
		}
	}

	return ui.DisplayRun(ctx, summary, samples)
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
