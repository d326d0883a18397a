package store

import (
	"context"
	"errors"

	"github.com/devaloi/msgboard/internal/domain"
)

// ErrInvalidTable is returned for table names that fail domain.ValidTable.
var ErrInvalidTable = errors.New("invalid table name")

// Store defines the object persistence interface of the table service.
type Store interface {
	// Create persists a new object in table and returns it with its assigned id.
	Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error)
	// QueryAll returns every object in table, oldest first.
	QueryAll(ctx context.Context, table string) ([]domain.Record, error)
	// Close releases any resources held by the store.
	Close() error
}
