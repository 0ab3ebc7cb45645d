package lock

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

func TestLockName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"binaries_deleted", "tablewipe:table:binaries_deleted"},
		{"audit-log", "tablewipe:table:audit-log"},
		{"weird table!", "tablewipe:table:weird_table_"},
	}

	for _, tt := range tests {
		if got := lockName(tt.table); got != tt.want {
			t.Errorf("lockName(%q) = %q, want %q", tt.table, got, tt.want)
		}
	}
}

func TestAcquireMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs("tablewipe:table:sessions").
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))

	tl := NewTableLock(db, sqlutil.MySQL, "sessions")
	if err := tl.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !tl.IsHeld() {
		t.Error("expected lock to be held")
	}

	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WithArgs("tablewipe:table:sessions").
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(1))

	if err := tl.Release(context.Background()); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if tl.IsHeld() {
		t.Error("expected lock to be released")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAcquireMySQLHeldElsewhere(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT GET_LOCK").
		WithArgs("tablewipe:table:sessions").
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(0))

	tl := NewTableLock(db, sqlutil.MySQL, "sessions")
	err := tl.Acquire(context.Background())
	if !errors.Is(err, ErrLockHeld) {
		t.Errorf("expected ErrLockHeld, got: %v", err)
	}
	if tl.IsHeld() {
		t.Error("lock should not be held after failed acquire")
	}
}

func TestAcquirePostgres(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(true))

	tl := NewTableLock(db, sqlutil.Postgres, "sessions")
	if err := tl.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	mock.ExpectQuery("SELECT pg_advisory_unlock").
		WillReturnRows(sqlmock.NewRows([]string{"released"}).AddRow(true))

	if err := tl.Release(context.Background()); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}

func TestAcquirePostgresHeldElsewhere(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WillReturnRows(sqlmock.NewRows([]string{"acquired"}).AddRow(false))

	tl := NewTableLock(db, sqlutil.Postgres, "sessions")
	if !errors.Is(tl.Acquire(context.Background()), ErrLockHeld) {
		t.Error("expected ErrLockHeld")
	}
}

func TestAcquireIdempotent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT GET_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))

	tl := NewTableLock(db, sqlutil.MySQL, "sessions")
	if err := tl.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	// Second acquire is a no-op, no further queries expected.
	if err := tl.Acquire(context.Background()); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}
}

func TestReleaseWithoutAcquire(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	tl := NewTableLock(db, sqlutil.MySQL, "sessions")
	if err := tl.Release(context.Background()); err != nil {
		t.Errorf("Release without Acquire should be a no-op, got: %v", err)
	}
}
