package cmd

import (
	"context"
	"fmt"
	"os"

	"collection-merge/core/config"
	"collection-merge/core/output"
	"collection-merge/core/reconcile"
	"collection-merge/feature/merge"

	"github.com/spf13/cobra"
)

var (
	mergeStrategy  string
	mergeThreshold float64
	mergeDump      bool
	mergeFormat    string
	mergeSheet     string
)

// mergeCmd runs a merge from the command line.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the content database with the reference sheet",
	Long: `Load the content database and the reference sheet, match every item and
write merged.json and merge_report.json to the output target.

Examples:
  # Name matching with the configured threshold
  merge

  # Identifier matching, dump the loaded sets too
  merge --strategy identifier --dump

  # Looser fuzzy matching against a local export
  merge --threshold 85 --sheet rows.csv --format json`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeStrategy, "strategy", "", "Match strategy: name or identifier (default from config)")
	mergeCmd.Flags().Float64Var(&mergeThreshold, "threshold", 0, "Fuzzy threshold override (0-100)")
	mergeCmd.Flags().BoolVar(&mergeDump, "dump", false, "Also write notion_raw.json and sheets_raw.json")
	mergeCmd.Flags().StringVar(&mergeFormat, "format", "", "Report format: table, json or yaml (default: table on a terminal)")
	mergeCmd.Flags().StringVar(&mergeSheet, "sheet", "", "Read the reference sheet from this CSV file")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := output.ParseFormat(mergeFormat)
	if err != nil {
		return err
	}
	if mergeThreshold < 0 || mergeThreshold > 100 {
		return fmt.Errorf("threshold %g out of range 0-100", mergeThreshold)
	}

	var strategy reconcile.Strategy
	if mergeStrategy != "" {
		if strategy, err = reconcile.ParseStrategy(mergeStrategy); err != nil {
			return err
		}
	}

	a, err := bootstrap(ctx, func(cfg *config.Config) {
		if mergeSheet != "" {
			cfg.Sheet.Path = mergeSheet
		}
	})
	if err != nil {
		return err
	}
	defer a.log.Sync()

	svc := merge.NewService(a.items, a.rows, a.sink, nil, a.strategy, a.opts, a.log)
	result, err := svc.Run(ctx, merge.RunOptions{
		Strategy:  strategy,
		Threshold: mergeThreshold,
		Dump:      mergeDump,
	})
	if err != nil {
		return err
	}

	var report any = result.Report
	if format == output.FormatTable {
		report = merge.ReportTable{Report: result.Report}
	}
	return output.Print(os.Stdout, format, report)
}
