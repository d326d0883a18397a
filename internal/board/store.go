//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks
package board

import (
	"context"

	"github.com/devaloi/msgboard/internal/domain"
)

// MessageStore is the table service as seen by the board.
// remote.Client implements it over HTTP; store.Store implements it in-process.
type MessageStore interface {
	Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error)
	QueryAll(ctx context.Context, table string) ([]domain.Record, error)
}
