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

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration file and runs preflight checks
against the database to ensure safe execution.

Checks performed:
  - Configuration syntax and required fields
  - Database connectivity
  - Target table existence
  - Primary key column existence

Example:
  tablewipe validate --config tablewipe.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("Target: %s.%s (%s)\n", cfg.Database.Database, cfg.Target.Table, cfg.Database.Driver)

	ctx := context.Background()

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

	console.Successf(cmd.OutOrStdout(), "All checks passed")
	return nil
}
