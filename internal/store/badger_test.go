package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"github.com/devaloi/msgboard/internal/domain"
)

func TestBadgerStore_CreateAndQueryAll(t *testing.T) {
	req := require.New(t)
	s, err := NewBadger("", logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	defer s.Close()
	ctx := context.Background()

	texts := []domain.Text{domain.SomeText("hi"), domain.NoText(), domain.SomeText("yo")}
	ids := make(map[string]bool)
	for _, text := range texts {
		rec, err := s.Create(ctx, domain.MessageTable, domain.Fields{Text: text})
		req.NoError(err)
		req.NotEmpty(rec.ID)
		ids[rec.ID] = true
	}
	req.Len(ids, 3)

	_, err = s.Create(ctx, "Other", domain.Fields{Text: domain.SomeText("elsewhere")})
	req.NoError(err)

	recs, err := s.QueryAll(ctx, domain.MessageTable)
	req.NoError(err)
	req.Len(recs, 3)
	for i, want := range texts {
		req.Equal(want, recs[i].Text)
	}
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx := context.Background()

	s, err := NewBadger(dir, log)
	req.NoError(err)
	_, err = s.Create(ctx, domain.MessageTable, domain.Fields{Text: domain.SomeText("first")})
	req.NoError(err)
	req.NoError(s.Close())

	s, err = NewBadger(dir, log)
	req.NoError(err)
	defer s.Close()
	_, err = s.Create(ctx, domain.MessageTable, domain.Fields{Text: domain.SomeText("second")})
	req.NoError(err)

	recs, err := s.QueryAll(ctx, domain.MessageTable)
	req.NoError(err)
	req.Len(recs, 2)
	first, _ := recs[0].Text.Get()
	second, _ := recs[1].Text.Get()
	req.Equal("first", first)
	req.Equal("second", second)
}

func TestBadgerStore_InvalidTable(t *testing.T) {
	req := require.New(t)
	s, err := NewBadger("", logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	defer s.Close()

	_, err = s.QueryAll(context.Background(), "no spaces")
	req.ErrorIs(err, ErrInvalidTable)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "", "", logs.GetLoggerFromLevel(slog.LevelDebug))
	require.Error(t, err)
}
