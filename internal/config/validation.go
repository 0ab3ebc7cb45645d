package config

import (
	"fmt"
	"strings"

	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateDatabase()...)
	errors = append(errors, c.validateTarget()...)
	errors = append(errors, c.validateProcessing()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDatabase() ValidationErrors {
	var errors ValidationErrors

	if _, err := sqlutil.DialectForDriver(c.Database.Driver); err != nil {
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Message: err.Error(),
		})
	}
	if c.Database.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Database.Port),
		})
	}
	if c.Database.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}
	if c.Database.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}
	switch c.Database.TLS {
	case "", "disable", "preferred", "required":
	default:
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: fmt.Sprintf("tls must be disable, preferred, or required, got %q", c.Database.TLS),
		})
	}

	return errors
}

func (c *Config) validateTarget() ValidationErrors {
	var errors ValidationErrors

	if c.Target.Table == "" {
		errors = append(errors, ValidationError{
			Field:   "target.table",
			Message: "table is required",
		})
	} else if !sqlutil.IsValidIdentifier(c.Target.Table) {
		errors = append(errors, ValidationError{
			Field:   "target.table",
			Message: fmt.Sprintf("%q is not a valid table name", c.Target.Table),
		})
	}

	if c.Target.PrimaryKey == "" {
		errors = append(errors, ValidationError{
			Field:   "target.primary_key",
			Message: "primary_key is required",
		})
	} else if !sqlutil.IsValidIdentifier(c.Target.PrimaryKey) {
		errors = append(errors, ValidationError{
			Field:   "target.primary_key",
			Message: fmt.Sprintf("%q is not a valid column name", c.Target.PrimaryKey),
		})
	}

	return errors
}

func (c *Config) validateProcessing() ValidationErrors {
	var errors ValidationErrors

	if c.Processing.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "processing.batch_size",
			Message: fmt.Sprintf("batch_size must be greater than 0, got %d", c.Processing.BatchSize),
		})
	}
	if c.Processing.SleepSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "processing.sleep_seconds",
			Message: "sleep_seconds cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("level must be debug, info, warn, or error, got %q", c.Logging.Level),
		})
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("format must be json or text, got %q", c.Logging.Format),
		})
	}

	return errors
}
