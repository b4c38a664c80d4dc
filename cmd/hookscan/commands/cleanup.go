package commands

import (
	"fmt"
	"time"

	"github.com/irahardianto/hookscan/internal/engine/vcs"
	"github.com/irahardianto/hookscan/internal/platform/logger"
	"github.com/spf13/cobra"
)

var flagOlderThan time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove leftover extraction directories",
	Long: `Remove hookscan_* directories under the temp root that are older than
--older-than. They are left behind when extracted files were listed for an external
scanner or when a hook was interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		log.Info("cleanup started", "older_than", flagOlderThan)

		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		count, err := vcs.SweepTemp(s.Config.TempRoot, flagOlderThan)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "♻️  Removed %d extraction director(ies)\n", count)
		log.Info("cleanup completed", "removed", count)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().DurationVar(&flagOlderThan, "older-than", time.Hour, "Only remove directories older than this")
	rootCmd.AddCommand(cleanupCmd)
}
