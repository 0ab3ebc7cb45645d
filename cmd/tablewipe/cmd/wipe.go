package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbtoolset/tablewipe/internal/console"
	"github.com/dbtoolset/tablewipe/internal/database"
	"github.com/dbtoolset/tablewipe/internal/lock"
	"github.com/dbtoolset/tablewipe/internal/logger"
	"github.com/dbtoolset/tablewipe/internal/sqlutil"
	"github.com/dbtoolset/tablewipe/internal/wiper"
)

var (
	wipeDryRun   bool
	wipeForce    bool
	wipeSkipLock bool
)

// errAborted maps the user declining the confirmation prompt to a non-zero
// exit code.
var errAborted = errors.New("operation cancelled by user")

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all rows from the target table in batches",
	Long: `Wipe deletes every row of the configured table in fixed-size batches.

The wipe process:
  1. Validate connectivity, table existence, and the primary key column
  2. Measure the starting row count and compute the batch plan
  3. Ask for confirmation (skipped with --force)
  4. Delete batch by batch, each in its own transaction, until the table
     is empty

WARNING: This permanently deletes data. Use --dry-run first to verify.

Example:
  tablewipe wipe --config tablewipe.yaml --table binaries_deleted`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeDryRun, "dry-run", false,
		"Show what would be deleted without actually deleting")
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false,
		"Skip the confirmation prompt")
	wipeCmd.Flags().BoolVar(&wipeSkipLock, "skip-lock", false,
		"Run even if the advisory lock cannot be acquired (use with caution)")

	rootCmd.AddCommand(wipeCmd)
}

func runWipe(cmd *cobra.Command, args []string) error {
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

	log.Infow("Starting wipe",
		"table", cfg.Target.Table,
		"batch_size", cfg.Processing.BatchSize,
		"dry_run", wipeDryRun,
	)

	// Cancellation rolls back the in-flight batch; committed batches stand.
	ctx := database.SetupSignalHandler(func(sig os.Signal) {
		log.Warnf("Received %s - stopping after the current batch", sig)
	})

	dbManager := database.NewManager(&cfg.Database)
	if err := dbManager.Connect(ctx); err != nil {
		return &wiper.ConnectionError{Err: err}
	}
	defer dbManager.Close()

	checker, err := wiper.NewPreflightChecker(dbManager.DB, dialect,
		cfg.Target.Table, cfg.Target.PrimaryKey, log)
	if err != nil {
		return err
	}
	if err := checker.RunAllChecks(ctx); err != nil {
		return err
	}

	if !wipeDryRun {
		tableLock := lock.NewTableLock(dbManager.DB, dialect, cfg.Target.Table)
		if err := tableLock.Acquire(ctx); err != nil {
			if errors.Is(err, lock.ErrLockHeld) && wipeSkipLock {
				log.Warnw("Advisory lock held elsewhere, continuing (--skip-lock)",
					"lock", tableLock.Name())
			} else if errors.Is(err, lock.ErrLockHeld) {
				return fmt.Errorf("another wipe of table %q is already running (use --skip-lock to override)",
					cfg.Target.Table)
			} else {
				return err
			}
		} else {
			defer tableLock.Release(context.Background())
		}
	}

	w, err := wiper.New(dbManager.DB, wiper.Options{
		Dialect:    dialect,
		Table:      cfg.Target.Table,
		PrimaryKey: cfg.Target.PrimaryKey,
		BatchSize:  cfg.Processing.BatchSize,
		Sleep:      time.Duration(cfg.Processing.SleepSeconds * float64(time.Second)),
		Logger:     log,
		Progress:   progressLine(cmd.OutOrStdout()),
		Confirm: func(total int64) bool {
			console.Warnf(cmd.OutOrStdout(),
				"WARNING: This will permanently delete ALL records from table %q!",
				cfg.Target.Table)
			return console.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				"Are you sure you want to delete %s records?", console.FormatCount(total))
		},
	})
	if err != nil {
		return err
	}

	stats, err := w.Run(ctx, wiper.RunOptions{
		DryRun:    wipeDryRun,
		Confirmed: wipeForce,
	})
	if err != nil {
		if stats != nil && stats.RowsDeleted > 0 {
			console.Errorf(cmd.OutOrStdout(),
				"Partial deletion: %s records were deleted before the failure",
				console.FormatCount(stats.RowsDeleted))
		}
		return err
	}

	switch stats.Outcome {
	case wiper.OutcomeDryRun:
		displayPlan(cmd.OutOrStdout(), stats)
		console.Warnf(cmd.OutOrStdout(), "This was a dry run - no records were deleted")
		return nil
	case wiper.OutcomeAborted:
		return errAborted
	default:
		displayResults(cmd.OutOrStdout(), stats)
		console.Successf(cmd.OutOrStdout(), "Deletion completed successfully")
		return nil
	}
}
