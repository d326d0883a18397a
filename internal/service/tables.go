package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/store"
)

// ErrTextTooLong is returned when a created text exceeds the configured limit.
var ErrTextTooLong = errors.New("text too long")

// Publisher receives a notification for every created record.
type Publisher interface {
	Publish(table string, rec domain.Record)
}

// Tables is the create/query-all service exposed over HTTP.
type Tables struct {
	store     store.Store
	publisher Publisher
	validate  *validator.Validate
	textRule  string
	log       *slog.Logger
}

// NewTables creates the service. maxTextLength counts runes.
func NewTables(s store.Store, p Publisher, maxTextLength int, log *slog.Logger) *Tables {
	return &Tables{
		store:     s,
		publisher: p,
		validate:  validator.New(),
		textRule:  fmt.Sprintf("max=%d", maxTextLength),
		log:       log,
	}
}

// Create validates and persists an object, then announces it to subscribers.
func (t *Tables) Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error) {
	if !domain.ValidTable(table) {
		return domain.Record{}, store.ErrInvalidTable
	}
	if text, ok := fields.Text.Get(); ok {
		if err := t.validate.Var(text, t.textRule); err != nil {
			return domain.Record{}, ErrTextTooLong
		}
	}

	rec, err := t.store.Create(ctx, table, fields)
	if err != nil {
		t.log.Error("Create failed", "table", table, "error", err)
		return domain.Record{}, err
	}
	t.log.Debug("Object created", "table", table, "id", rec.ID)

	if t.publisher != nil {
		t.publisher.Publish(table, rec)
	}
	return rec, nil
}

// QueryAll returns every object of a table.
func (t *Tables) QueryAll(ctx context.Context, table string) ([]domain.Record, error) {
	if !domain.ValidTable(table) {
		return nil, store.ErrInvalidTable
	}
	recs, err := t.store.QueryAll(ctx, table)
	if err != nil {
		t.log.Error("Query failed", "table", table, "error", err)
		return nil, err
	}
	return recs, nil
}
