package wiper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dbtoolset/tablewipe/internal/sqlutil"
)

func TestNewPreflightChecker(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	p, err := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	if err != nil {
		t.Fatalf("NewPreflightChecker failed: %v", err)
	}
	if p.logger == nil {
		t.Error("expected default logger to be set")
	}
}

func TestNewPreflightCheckerNilDB(t *testing.T) {
	if _, err := NewPreflightChecker(nil, sqlutil.Postgres, testTable, testPK, nil); err == nil {
		t.Error("expected error for nil database")
	}
}

func TestNewPreflightCheckerMissingTable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	if _, err := NewPreflightChecker(db, sqlutil.Postgres, "", testPK, nil); err == nil {
		t.Error("expected error for empty table name")
	}
}

func TestNewPreflightCheckerDefaultPK(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	p, err := NewPreflightChecker(db, sqlutil.Postgres, testTable, "", nil)
	if err != nil {
		t.Fatalf("NewPreflightChecker failed: %v", err)
	}
	if p.pkColumn != "id" {
		t.Errorf("expected default primary key 'id', got %q", p.pkColumn)
	}
}

func TestRunAllChecksSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
		WithArgs(testTable).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.columns").
		WithArgs(testTable, testPK).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	p, _ := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	if err := p.RunAllChecks(context.Background()); err != nil {
		t.Fatalf("RunAllChecks failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunAllChecksMissingTable(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
		WithArgs(testTable).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	p, _ := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	err := p.RunAllChecks(context.Background())

	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %T: %v", err, err)
	}
}

func TestRunAllChecksMissingColumn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	p, _ := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	err := p.RunAllChecks(context.Background())
	if err == nil {
		t.Fatal("expected error for missing primary key column")
	}
}

func TestRunAllChecksConnectionError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(fmt.Errorf("no route to host"))

	p, _ := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	cerr := p.RunAllChecks(context.Background())

	var connErr *ConnectionError
	if !errors.As(cerr, &connErr) {
		t.Fatalf("expected ConnectionError, got %T: %v", cerr, cerr)
	}
}

func TestTableExistsMySQL(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("table_schema = DATABASE\\(\\)").
		WithArgs(testTable).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	p, _ := NewPreflightChecker(db, sqlutil.MySQL, testTable, testPK, nil)
	exists, err := p.TableExists(context.Background())
	if err != nil {
		t.Fatalf("TableExists failed: %v", err)
	}
	if !exists {
		t.Error("expected table to exist")
	}
}

func TestTableExistsQueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	mock.ExpectQuery("information_schema.tables").
		WillReturnError(fmt.Errorf("permission denied"))

	p, _ := NewPreflightChecker(db, sqlutil.Postgres, testTable, testPK, nil)
	_, err := p.TableExists(context.Background())

	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %T: %v", err, err)
	}
}
