package domain

import (
	"errors"
	"fmt"
)

// ErrStaleResult marks a query result superseded by a newer refresh.
var ErrStaleResult = errors.New("stale result discarded")

// QueryError reports a failed fetch against the table service.
type QueryError struct {
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// StoreError reports a failed save against the table service.
type StoreError struct {
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
