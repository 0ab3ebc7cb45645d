// Package lock provides advisory locking to prevent concurrent wipe runs
// against the same table.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

// ErrLockHeld is returned when another instance is holding the lock.
var ErrLockHeld = errors.New("advisory lock held by another instance")

// TableLock is an advisory lock scoped to a single table. MySQL uses named
// GET_LOCK locks; PostgreSQL uses session advisory locks keyed by a 64-bit
// hash of the lock name. Both are session-scoped, so the lock is held on a
// dedicated connection pinned for the lifetime of the lock.
type TableLock struct {
	db       *sql.DB
	dialect  sqlutil.Dialect
	lockName string
	conn     *sql.Conn
}

// NewTableLock creates an advisory lock for the given table.
// The lock is not acquired until Acquire is called.
func NewTableLock(db *sql.DB, dialect sqlutil.Dialect, table string) *TableLock {
	return &TableLock{
		db:       db,
		dialect:  dialect,
		lockName: lockName(table),
	}
}

// lockName builds a namespaced lock name from the table name, sanitized to
// avoid conflicts with other advisory locks on the same server.
func lockName(table string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, table)
	return "tablewipe:table:" + sanitized
}

// Acquire attempts to take the lock without waiting.
// Returns ErrLockHeld if another instance holds it, or the underlying
// database error.
func (t *TableLock) Acquire(ctx context.Context) error {
	if t.conn != nil {
		return nil // Already holding the lock
	}

	conn, err := t.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to reserve lock connection: %w", err)
	}

	acquired, err := t.tryAcquire(ctx, conn)
	if err != nil {
		conn.Close()
		return err
	}
	if !acquired {
		conn.Close()
		return fmt.Errorf("%w: lock %q", ErrLockHeld, t.lockName)
	}

	t.conn = conn
	return nil
}

func (t *TableLock) tryAcquire(ctx context.Context, conn *sql.Conn) (bool, error) {
	if t.dialect == sqlutil.Postgres {
		var acquired bool
		err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", t.key()).Scan(&acquired)
		if err != nil {
			return false, fmt.Errorf("failed to execute pg_try_advisory_lock: %w", err)
		}
		return acquired, nil
	}

	// GET_LOCK returns 1 on success, 0 on timeout, NULL on error.
	var result sql.NullInt64
	err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", t.lockName).Scan(&result)
	if err != nil {
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", t.lockName)
	}
	return result.Int64 == 1, nil
}

// Release releases the advisory lock and returns the pinned connection to
// the pool. Safe to call when the lock is not held.
func (t *TableLock) Release(ctx context.Context) error {
	if t.conn == nil {
		return nil
	}
	defer func() {
		t.conn.Close()
		t.conn = nil
	}()

	if t.dialect == sqlutil.Postgres {
		var released bool
		if err := t.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", t.key()).Scan(&released); err != nil {
			return fmt.Errorf("failed to execute pg_advisory_unlock: %w", err)
		}
		return nil
	}

	var result sql.NullInt64
	if err := t.conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", t.lockName).Scan(&result); err != nil {
		return fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	return nil
}

// IsHeld reports whether this instance currently holds the lock.
func (t *TableLock) IsHeld() bool {
	return t.conn != nil
}

// Name returns the advisory lock name.
func (t *TableLock) Name() string {
	return t.lockName
}

// key hashes the lock name to the signed 64-bit key space PostgreSQL
// advisory locks use.
func (t *TableLock) key() int64 {
	h := fnv.New64a()
	h.Write([]byte(t.lockName))
	return int64(h.Sum64())
}
