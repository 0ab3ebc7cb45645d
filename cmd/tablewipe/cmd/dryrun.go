package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbtoolset/tablewipe/internal/console"
	"github.com/dbtoolset/tablewipe/internal/database"
	"github.com/dbtoolset/tablewipe/internal/logger"
	"github.com/dbtoolset/tablewipe/internal/sqlutil"
	"github.com/dbtoolset/tablewipe/internal/wiper"
)

var dryrunCmd = &cobra.Command{
	Use:   "dry-run",
	Short: "Show the deletion plan without deleting anything",
	Long: `Dry-run measures the target table and reports what a wipe would do
without making any changes.

The plan shows:
  - Current row count of the target table
  - Batch size and number of batches that would run
  - A sample of the first primary keys that would be deleted

Example:
  tablewipe dry-run --config tablewipe.yaml`,
	RunE: runDryrun,
}

func init() {
	rootCmd.AddCommand(dryrunCmd)
}

func runDryrun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	dialect, err := sqlutil.DialectForDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}

	ctx := context.Background()

	dbManager := database.NewManager(&cfg.Database)
	if err := dbManager.Connect(ctx); err != nil {
		return &wiper.ConnectionError{Err: err}
	}
	defer dbManager.Close()

	w, err := wiper.New(dbManager.DB, wiper.Options{
		Dialect:    dialect,
		Table:      cfg.Target.Table,
		PrimaryKey: cfg.Target.PrimaryKey,
		BatchSize:  cfg.Processing.BatchSize,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	stats, err := w.Run(ctx, wiper.RunOptions{DryRun: true})
	if err != nil {
		return err
	}

	displayPlan(cmd.OutOrStdout(), stats)
	console.Warnf(cmd.OutOrStdout(), "No records were deleted. Use the 'wipe' command to execute.")

	return nil
}
