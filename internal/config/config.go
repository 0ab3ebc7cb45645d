// Package config provides configuration structures and loading for tablewipe.
package config

// Config represents the complete application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Target     TargetConfig     `yaml:"target" mapstructure:"target"`
	Processing ProcessingConfig `yaml:"processing" mapstructure:"processing"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents the target database connection configuration.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql or postgres
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// TargetConfig identifies the table whose rows are wiped.
type TargetConfig struct {
	Table      string `yaml:"table" mapstructure:"table"`
	PrimaryKey string `yaml:"primary_key" mapstructure:"primary_key"`
}

// ProcessingConfig represents batch processing settings.
type ProcessingConfig struct {
	BatchSize    int     `yaml:"batch_size" mapstructure:"batch_size"`
	SleepSeconds float64 `yaml:"sleep_seconds" mapstructure:"sleep_seconds"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
// The database port default is driver-dependent and resolved in Load.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:             "postgres",
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Target: TargetConfig{
			PrimaryKey: "id",
		},
		Processing: ProcessingConfig{
			BatchSize:    400,
			SleepSeconds: 0.1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DefaultPort returns the conventional port for the configured driver.
func (db *DatabaseConfig) DefaultPort() int {
	if db.Driver == "mysql" {
		return 3306
	}
	return 5432
}

// Overrides contains CLI flag values that override config file settings.
// Only non-zero/non-empty values are applied.
type Overrides struct {
	Table      string
	PrimaryKey string
	BatchSize  int
	Sleep      float64
	LogLevel   string
	LogFormat  string
}

// ApplyOverrides applies CLI flag overrides to the configuration.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Table != "" {
		c.Target.Table = o.Table
	}
	if o.PrimaryKey != "" {
		c.Target.PrimaryKey = o.PrimaryKey
	}
	if o.BatchSize > 0 {
		c.Processing.BatchSize = o.BatchSize
	}
	if o.Sleep > 0 {
		c.Processing.SleepSeconds = o.Sleep
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
}
