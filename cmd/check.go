package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"vpiscope.dev/pkg/vpiscope/internal/controller"
	"vpiscope.dev/pkg/vpiscope/internal/domain"
)

var errChecksFailed = errors.New("expectations failed")

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [paths...]",
		Short:        "Verify expectation files against their designs",
		Long:         checkLongDescription,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := expectationFinder.Find(args)
			if err != nil {
				return err
			}

			if len(files) == 0 {
				return fmt.Errorf("no *_expect.yaml files found in %v", args)
			}

			results, err := checkFiles(ctx, files, checkDefaults{
				design:   viper.GetString(designKey),
				compat:   viper.GetStringSlice(compatKey),
				parallel: viper.GetInt(checkParallelKey),
			})
			if err != nil {
				return err
			}

			if err := ui.DisplayCheck(ctx, results); err != nil {
				return err
			}

			failed := 0

			for _, r := range results {
				if !r.Passed() {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s): %w", failed, len(results), errChecksFailed)
			}

			return nil
		},
	}

	cmd.Flags().IntP(parallelFlagName, "p", defaultCheckParallel, "number of expectation files checked concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), checkParallelKey)

	return cmd
}

// checkDefaults apply to expectation files that name no design or
// compatibility mode of their own.
type checkDefaults struct {
	design   string
	compat   []string
	parallel int
}

// checkFiles verifies every file on its own engine. Results keep the order
// of files; only cancellation is returned as an error.
func checkFiles(ctx context.Context, files []string, defaults checkDefaults) ([]controller.CheckResult, error) {
	results := make([]controller.CheckResult, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if defaults.parallel > 0 {
		group.SetLimit(defaults.parallel)
	}

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = checkFile(groupCtx, file, defaults)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func checkFile(ctx context.Context, path string, defaults checkDefaults) controller.CheckResult {
	result := controller.CheckResult{File: path}

	file, err := expectationStore.Load(ctx, path)
	if err != nil {
		result.Err = err
		return result
	}

	design := file.Design
	if design == "" {
		design = defaults.design
	}

	compat := file.Compat
	if len(compat) == 0 {
		compat = defaults.compat
	}

	engine, _, err := openEngine(ctx, design, compat)
	if err != nil {
		result.Err = err
		return result
	}

	result.Report, result.Err = domain.NewChecker(engine).Check(file.Expect)

	slog.Debug("checked expectations", "file", path, "checked", result.Report.Checked,
		"mismatches", len(result.Report.Mismatches))

	return result
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}
