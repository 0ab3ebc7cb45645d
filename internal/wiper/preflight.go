package wiper

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbtoolset/tablewipe/internal/logger"
	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

// PreflightChecker verifies the environment before a wipe run: the database
// is reachable, the target table exists, and the primary key column exists.
type PreflightChecker struct {
	db       *sql.DB
	dialect  sqlutil.Dialect
	table    string
	pkColumn string
	logger   *logger.Logger
}

// NewPreflightChecker creates a preflight checker for the target table.
func NewPreflightChecker(db *sql.DB, dialect sqlutil.Dialect, table, pkColumn string, log *logger.Logger) (*PreflightChecker, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if pkColumn == "" {
		pkColumn = "id"
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &PreflightChecker{
		db:       db,
		dialect:  dialect,
		table:    table,
		pkColumn: pkColumn,
		logger:   log,
	}, nil
}

// RunAllChecks runs connectivity, table existence, and primary key checks.
func (p *PreflightChecker) RunAllChecks(ctx context.Context) error {
	p.logger.Info("Running preflight checks...")

	if err := p.db.PingContext(ctx); err != nil {
		return &ConnectionError{Err: err}
	}

	exists, err := p.TableExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return &QueryError{Op: "preflight", Table: p.table,
			Err: fmt.Errorf("table does not exist")}
	}

	hasColumn, err := p.ColumnExists(ctx, p.pkColumn)
	if err != nil {
		return err
	}
	if !hasColumn {
		return &QueryError{Op: "preflight", Table: p.table,
			Err: fmt.Errorf("primary key column %q does not exist", p.pkColumn)}
	}

	p.logger.Info("All preflight checks passed")
	return nil
}

// TableExists checks information_schema for the target table in the current
// schema.
func (p *PreflightChecker) TableExists(ctx context.Context) (bool, error) {
	var query string
	if p.dialect == sqlutil.Postgres {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	} else {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
	}

	var count int
	if err := p.db.QueryRowContext(ctx, query, p.table).Scan(&count); err != nil {
		return false, &QueryError{Op: "check table existence", Table: p.table, Err: err}
	}
	return count > 0, nil
}

// ColumnExists checks information_schema for a column on the target table.
func (p *PreflightChecker) ColumnExists(ctx context.Context, column string) (bool, error) {
	var query string
	if p.dialect == sqlutil.Postgres {
		query = "SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2"
	} else {
		query = "SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?"
	}

	var count int
	if err := p.db.QueryRowContext(ctx, query, p.table, column).Scan(&count); err != nil {
		return false, &QueryError{Op: "check column existence", Table: p.table, Err: err}
	}
	return count > 0, nil
}
