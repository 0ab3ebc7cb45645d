package wiper

import "fmt"

// ConnectionError indicates the database could not be reached or
// authenticated against. It is fatal and never retried at the run level.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError indicates a rejected SQL statement, including a failed batch
// transaction. It terminates the current run; batches committed before the
// failure stand.
type QueryError struct {
	Op    string
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed for table %q: %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
