package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbtoolset/tablewipe/internal/config"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	batchSize    int
	sleepSeconds float64
	table        string
	primaryKey   string
)

var rootCmd = &cobra.Command{
	Use:   "tablewipe",
	Short: "Batched table wiper for MySQL and PostgreSQL",
	Long: `A CLI tool that deletes all rows from a single database table in
fixed-size batches, with a dry-run preview, a confirmation prompt, and
progress/statistics reporting.

Each batch is one all-or-nothing transaction: a failed batch rolls back and
terminates the run, while batches committed before the failure stand.`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tablewipe.yaml",
		"Path to configuration file")

	// Target overrides
	rootCmd.PersistentFlags().StringVarP(&table, "table", "t", "",
		"Override target table name")
	rootCmd.PersistentFlags().StringVar(&primaryKey, "primary-key", "",
		"Override primary key column name")

	// Processing overrides
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0,
		"Override batch size (rows deleted per transaction)")
	rootCmd.PersistentFlags().Float64Var(&sleepSeconds, "sleep", 0,
		"Override sleep seconds between batches")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// GetOverrides returns the CLI flag override values
func GetOverrides() config.Overrides {
	return config.Overrides{
		Table:      table,
		PrimaryKey: primaryKey,
		BatchSize:  batchSize,
		Sleep:      sleepSeconds,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}
}

// loadConfig loads the configuration file, applies CLI overrides, and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, err
	}

	cfg.ApplyOverrides(GetOverrides())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
