// Package sqlutil provides SQL dialect helpers shared by the wiper and
// preflight layers.
package sqlutil

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect identifies the SQL dialect of the target database.
type Dialect int

const (
	// MySQL uses backtick-quoted identifiers and ? placeholders.
	MySQL Dialect = iota
	// Postgres uses double-quoted identifiers and $N placeholders.
	Postgres
)

// DialectForDriver maps a database/sql driver name to its Dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "postgres":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported database driver %q (supported: mysql, postgres)", driver)
	}
}

// String returns the driver name for the dialect.
func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// QuoteIdentifier quotes a table or column name for the dialect, escaping
// embedded quote characters by doubling them.
func (d Dialect) QuoteIdentifier(name string) string {
	if d == Postgres {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Placeholder returns the bind placeholder for the 1-based position n.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Placeholders returns a comma-separated list of count placeholders starting
// at the 1-based position start. Used to build IN clauses.
func (d Dialect) Placeholders(start, count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = d.Placeholder(start + i)
	}
	return strings.Join(parts, ",")
}

// validIdentifierRegex restricts identifiers to alphanumeric and underscore.
// Both MySQL and PostgreSQL allow more once quoted, but table and column
// names come from configuration, so this is a defense-in-depth measure
// against SQL injection.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z_][a-zA-Z0-9_]*$")

// IsValidIdentifier reports whether name is a plain SQL identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes an identifier after validating it.
// Returns an error if the identifier contains invalid characters.
func (d Dialect) QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return d.QuoteIdentifier(name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must start with a letter or underscore and contain only alphanumeric characters and underscores)"
}
