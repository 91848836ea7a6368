package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"collection-merge/core/output"
	"collection-merge/feature/prices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pricesDryRun bool
	pricesYes    bool
	pricesFormat string
)

// pricesCmd synchronises prices from the reference sheet into the database.
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Update collection prices from the reference sheet",
	Long: `Match owned items against the reference sheet by name, write the merged
price sheet (merged_prices.csv) and update the prices in the collection database.

Examples:
  # Plan only
  prices --dry-run

  # Update with interactive confirmation
  prices

  # Update with auto-confirm (non-interactive)
  prices --yes`,
	RunE: runPrices,
}

func init() {
	pricesCmd.Flags().BoolVar(&pricesDryRun, "dry-run", false, "Plan and write the merged sheet without updating the database")
	pricesCmd.Flags().BoolVar(&pricesYes, "yes", false, "Auto-confirm database updates (non-interactive)")
	pricesCmd.Flags().StringVar(&pricesFormat, "format", "", "Summary format: table, json or yaml (default: table on a terminal)")

	RootCmd.AddCommand(pricesCmd)
}

func runPrices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := output.ParseFormat(pricesFormat)
	if err != nil {
		return err
	}

	a, err := bootstrap(ctx, nil)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	var store *prices.Store
	if db := a.connectDB(); db != nil {
		store = prices.NewStore(db, a.cfg.Prices.Table)
		if err := store.VerifySchema(); err != nil {
			return err
		}
	}

	svc, err := a.pricesService(store)
	if err != nil {
		return err
	}

	a.log.Info("Planning price updates...")
	plan, err := svc.Plan(ctx)
	if err != nil {
		return fmt.Errorf("failed to plan price updates: %w", err)
	}

	if err := output.Print(os.Stdout, format, plan.Summary); err != nil {
		return err
	}
	printSampleActions(a.log, plan)

	if pricesDryRun {
		a.log.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		a.log.Info("No price updates required.")
		return nil
	}
	if store == nil {
		return prices.ErrNoDatabase
	}

	if !confirmUpdates(len(plan.Actions)) {
		a.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	executed, err := svc.Apply(ctx, plan, prices.ApplyOptions{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply price updates: %w", err)
	}
	a.log.Info("Successfully updated prices", zap.Int("count", executed))
	return nil
}

// printSampleActions logs the first few planned updates.
func printSampleActions(l *zap.Logger, plan *prices.Plan) {
	const maxShow = 5
	for i, action := range plan.Actions {
		if i == maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
			break
		}
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("token", action.Token),
			zap.String("name", action.Name),
			zap.Int("price", action.Price),
		)
	}
}

// confirmUpdates prompts the user for confirmation or uses the --yes flag.
func confirmUpdates(n int) bool {
	if pricesYes {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nType 'yes' to update %d prices: ", n)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
