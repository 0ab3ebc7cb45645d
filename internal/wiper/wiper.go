// Package wiper implements batched deletion of all rows from a single table.
package wiper

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbtoolset/tablewipe/internal/logger"
	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 400

// sampleSize is the number of primary keys shown in a dry-run plan.
const sampleSize = 10

// Options configures a Wiper.
type Options struct {
	Dialect    sqlutil.Dialect
	Table      string
	PrimaryKey string
	BatchSize  int
	Sleep      time.Duration // pause between batches, zero disables
	Logger     *logger.Logger
	Progress   ProgressFunc
	Confirm    ConfirmFunc
}

// Wiper deletes every row of one table in fixed-size batches. Each batch is
// a single all-or-nothing transaction: rows are selected by primary key in
// ascending order, deleted by IN-list, and committed before the next batch
// begins. Batches never overlap.
type Wiper struct {
	db        *sql.DB
	dialect   sqlutil.Dialect
	table     string
	pkColumn  string
	batchSize int
	sleep     time.Duration
	logger    *logger.Logger
	progress  ProgressFunc
	confirm   ConfirmFunc
}

// New creates a Wiper for the given table.
func New(db *sql.DB, opts Options) (*Wiper, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if !sqlutil.IsValidIdentifier(opts.Table) {
		return nil, fmt.Errorf("invalid table name %q", opts.Table)
	}
	if opts.PrimaryKey == "" {
		opts.PrimaryKey = "id"
	}
	if !sqlutil.IsValidIdentifier(opts.PrimaryKey) {
		return nil, fmt.Errorf("invalid primary key column %q", opts.PrimaryKey)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefault()
	}

	return &Wiper{
		db:        db,
		dialect:   opts.Dialect,
		table:     opts.Table,
		pkColumn:  opts.PrimaryKey,
		batchSize: opts.BatchSize,
		sleep:     opts.Sleep,
		logger:    opts.Logger.WithTable(opts.Table),
		progress:  opts.Progress,
		confirm:   opts.Confirm,
	}, nil
}

// BatchSize returns the configured batch size.
func (w *Wiper) BatchSize() int {
	return w.batchSize
}

// CountRows returns the current row count of the target table.
func (w *Wiper) CountRows(ctx context.Context) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", w.dialect.QuoteIdentifier(w.table))

	var count int64
	if err := w.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, &QueryError{Op: "count rows", Table: w.table, Err: err}
	}
	return count, nil
}

// DeleteBatch deletes up to limit rows in a single transaction and returns
// the number of rows deleted (0 when the table is empty). Rows are selected
// by primary key in ascending order and locked for the duration of the
// transaction, so successive batches are disjoint. On any failure the
// transaction is rolled back, zero rows count as deleted, and a QueryError
// is returned.
func (w *Wiper) DeleteBatch(ctx context.Context, limit int) (int64, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &QueryError{Op: "begin batch transaction", Table: w.table, Err: err}
	}

	pks, err := w.selectBatchPKs(ctx, tx, limit)
	if err != nil {
		tx.Rollback()
		return 0, &QueryError{Op: "select batch", Table: w.table, Err: err}
	}
	if len(pks) == 0 {
		tx.Rollback()
		return 0, nil
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
		w.dialect.QuoteIdentifier(w.table),
		w.dialect.QuoteIdentifier(w.pkColumn),
		w.dialect.Placeholders(1, len(pks)),
	)

	result, err := tx.ExecContext(ctx, query, pks...)
	if err != nil {
		tx.Rollback()
		return 0, &QueryError{Op: "delete batch", Table: w.table, Err: err}
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return 0, &QueryError{Op: "read rows affected", Table: w.table, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &QueryError{Op: "commit batch", Table: w.table, Err: err}
	}

	return deleted, nil
}

// selectBatchPKs fetches up to limit primary keys in ascending order inside
// the batch transaction. FOR UPDATE keeps the selected rows stable until the
// delete commits.
func (w *Wiper) selectBatchPKs(ctx context.Context, tx *sql.Tx, limit int) ([]interface{}, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC LIMIT %s FOR UPDATE",
		w.dialect.QuoteIdentifier(w.pkColumn),
		w.dialect.QuoteIdentifier(w.table),
		w.dialect.QuoteIdentifier(w.pkColumn),
		w.dialect.Placeholder(1),
	)

	rows, err := tx.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pks []interface{}
	for rows.Next() {
		var pk interface{}
		if err := rows.Scan(&pk); err != nil {
			return nil, err
		}
		// The MySQL driver returns []byte for string keys
		if b, ok := pk.([]byte); ok {
			pk = string(b)
		}
		pks = append(pks, pk)
	}
	return pks, rows.Err()
}

// SamplePKs returns up to n primary keys in ascending order, used for the
// dry-run plan preview.
func (w *Wiper) SamplePKs(ctx context.Context, n int) ([]interface{}, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC LIMIT %s",
		w.dialect.QuoteIdentifier(w.pkColumn),
		w.dialect.QuoteIdentifier(w.table),
		w.dialect.QuoteIdentifier(w.pkColumn),
		w.dialect.Placeholder(1),
	)

	rows, err := w.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, &QueryError{Op: "sample primary keys", Table: w.table, Err: err}
	}
	defer rows.Close()

	var pks []interface{}
	for rows.Next() {
		var pk interface{}
		if err := rows.Scan(&pk); err != nil {
			return nil, &QueryError{Op: "sample primary keys", Table: w.table, Err: err}
		}
		if b, ok := pk.([]byte); ok {
			pk = string(b)
		}
		pks = append(pks, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "sample primary keys", Table: w.table, Err: err}
	}
	return pks, nil
}

// RunOptions selects the execution mode of a run.
type RunOptions struct {
	DryRun    bool // report the plan, delete nothing
	Confirmed bool // skip the confirmation callback
}

// Run executes the full wipe. It validates connectivity, measures the
// starting row count, and then either reports the plan (dry-run) or loops
// DeleteBatch until a batch deletes zero rows. The returned Stats carry the
// terminal outcome; a nil error with OutcomeAborted means the user declined.
//
// If rows are inserted concurrently during the run the loop keeps going
// until a batch comes back empty, so BatchesPlanned is not an upper bound in
// that case. The tool assumes it is the sole writer for the duration of a
// run.
func (w *Wiper) Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		Table:     w.table,
		BatchSize: w.batchSize,
	}

	if err := w.db.PingContext(ctx); err != nil {
		return nil, &ConnectionError{Err: err}
	}

	total, err := w.CountRows(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalBefore = total
	stats.BatchesPlanned = (total + int64(w.batchSize) - 1) / int64(w.batchSize)

	w.logger.Infow("Measured starting row count",
		"rows", total,
		"batch_size", w.batchSize,
		"planned_batches", stats.BatchesPlanned,
	)

	if opts.DryRun {
		sample, err := w.SamplePKs(ctx, sampleSize)
		if err != nil {
			// The plan is still useful without the sample
			w.logger.Warnf("Could not retrieve sample primary keys: %v", err)
		}
		stats.SamplePKs = sample
		stats.Outcome = OutcomeDryRun
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	if total == 0 {
		w.logger.Info("Table is already empty, nothing to delete")
		stats.Outcome = OutcomeCompleted
		stats.Verified = true
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	if !opts.Confirmed {
		if w.confirm == nil || !w.confirm(total) {
			w.logger.Info("Wipe aborted at confirmation prompt")
			stats.Outcome = OutcomeAborted
			stats.Elapsed = time.Since(start)
			return stats, nil
		}
	}

	if err := w.deleteLoop(ctx, stats); err != nil {
		stats.Elapsed = time.Since(start)
		return stats, err
	}

	if finalCount, err := w.CountRows(ctx); err != nil {
		w.logger.Warnf("Final verification count failed: %v", err)
	} else {
		stats.FinalCount = finalCount
		stats.Verified = true
	}

	stats.Outcome = OutcomeCompleted
	stats.Elapsed = time.Since(start)

	w.logger.Infow("Wipe complete",
		"rows_deleted", stats.RowsDeleted,
		"batches", stats.BatchesRun,
		"duration", stats.Elapsed,
	)

	return stats, nil
}

// deleteLoop runs DeleteBatch until a batch deletes zero rows, updating
// stats and emitting progress after every committed batch.
func (w *Wiper) deleteLoop(ctx context.Context, stats *Stats) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("wipe interrupted: %w", err)
		}

		deleted, err := w.DeleteBatch(ctx, w.batchSize)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return nil
		}

		stats.BatchesRun++
		stats.RowsDeleted += deleted

		w.logger.WithBatch(stats.BatchesRun).Infof("Deleted %d rows (total: %d/%d)",
			deleted, stats.RowsDeleted, stats.TotalBefore)

		if w.progress != nil {
			w.progress(stats.BatchesRun, deleted, stats.RowsDeleted, stats.TotalBefore)
		}

		if w.sleep > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("wipe interrupted: %w", ctx.Err())
			case <-time.After(w.sleep):
			}
		}
	}
}
