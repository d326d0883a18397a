package board

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/uiloop"
)

// ListController keeps the message list shown on screen. Every refresh replaces
// the list wholesale; there is no incremental sync.
type ListController struct {
	store    MessageStore
	loop     *uiloop.Loop
	table    string
	renderer Renderer
	log      *slog.Logger

	issued atomic.Uint64

	// Owned by the loop.
	items   []domain.Message
	applied uint64
}

// NewListController creates a controller for table.
func NewListController(s MessageStore, loop *uiloop.Loop, table string, r Renderer, log *slog.Logger) *ListController {
	if r == nil {
		r = nopRenderer{}
	}
	return &ListController{
		store:    s,
		loop:     loop,
		table:    table,
		renderer: r,
		log:      log,
		items:    []domain.Message{},
	}
}

// RefreshAsync queries the store off the loop and applies the result on it.
// done, if not nil, runs on the loop with the new list or the error.
// A result older than the last applied one is dropped with domain.ErrStaleResult.
func (l *ListController) RefreshAsync(ctx context.Context, done func([]domain.Message, error)) {
	gen := l.issued.Add(1)
	go func() {
		recs, err := l.store.QueryAll(ctx, l.table)
		if perr := l.loop.Post(func() { l.apply(gen, recs, err, done) }); perr != nil {
			l.log.Debug("Refresh result dropped", "generation", gen, "error", perr)
		}
	}()
}

// Refresh is the blocking form of RefreshAsync. It must not be called from the loop.
func (l *ListController) Refresh(ctx context.Context) ([]domain.Message, error) {
	type result struct {
		items []domain.Message
		err   error
	}
	ch := make(chan result, 1)
	l.RefreshAsync(ctx, func(items []domain.Message, err error) {
		ch <- result{items: items, err: err}
	})
	select {
	case r := <-ch:
		return r.items, r.err
	case <-l.loop.Done():
		return nil, uiloop.ErrStopped
	}
}

// Items returns a copy of the current list. Loop only.
func (l *ListController) Items() []domain.Message {
	out := make([]domain.Message, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of rows. Loop only.
func (l *ListController) Len() int {
	return len(l.items)
}

// Render pushes the current list to the renderer. Loop only.
func (l *ListController) Render() {
	l.renderer.RenderList(Rows(l.items))
}

func (l *ListController) apply(gen uint64, recs []domain.Record, err error, done func([]domain.Message, error)) {
	finish := func(items []domain.Message, err error) {
		if done != nil {
			done(items, err)
		}
	}

	if gen < l.applied {
		l.log.Debug("Discarding stale refresh", "generation", gen, "applied", l.applied, "error", err)
		finish(nil, domain.ErrStaleResult)
		return
	}
	if err != nil {
		qe := &domain.QueryError{Table: l.table, Err: err}
		l.log.Error("Refresh failed", "table", l.table, "error", err)
		finish(nil, qe)
		return
	}

	l.applied = gen
	l.items = toMessages(recs)
	l.Render()
	finish(l.Items(), nil)
}

// toMessages drops records without text.
func toMessages(recs []domain.Record) []domain.Message {
	return lo.FilterMap(recs, func(r domain.Record, _ int) (domain.Message, bool) {
		text, ok := r.Text.Get()
		return domain.Message{ID: r.ID, Text: text}, ok
	})
}
