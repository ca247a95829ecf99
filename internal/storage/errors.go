// Package storage provides ClickHouse persistence for bridge events and
// history samples.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates a failure to connect to the database.
	ErrConnectionFailed = errors.New("storage: connection failed")

	// ErrBatchInsertFailed indicates a batch insert failure.
	ErrBatchInsertFailed = errors.New("storage: batch insert failed")

	// ErrWriterClosed indicates the batch writer has been closed.
	ErrWriterClosed = errors.New("storage: batch writer closed")
)

// Error wraps storage failures with the operation and table involved.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("storage.%s(%s): %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("storage.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func wrapConn(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrConnectionFailed, err)}
}
