package cmd

import (
	"collection-merge/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "collection-merge",
	Short: "Collection merge service",
	Long: `collection-merge joins a content database (Notion) with a reference sheet.
Items are matched by name (exact, then fuzzy) or by identifier (token, then
local number), and the merged records feed price synchronisation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		// Console format with development timestamps reads better on a terminal.
		l := logger.Console()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		return 1
	}
	return 0
}
