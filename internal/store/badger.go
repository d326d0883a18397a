package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/devaloi/msgboard/internal/domain"
)

const sequenceBandwidth = 100

// BadgerStore implements Store on top of BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// NewBadger opens a Badger database at path. An empty path opens an in-memory database.
func NewBadger(path string, log *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte("seq:objects"), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badger sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq, log: log}, nil
}

// Create stores the object under "obj:{table}:{seq}". The zero-padded sequence keeps
// a prefix scan in insertion order.
func (s *BadgerStore) Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error) {
	if !domain.ValidTable(table) {
		return domain.Record{}, ErrInvalidTable
	}
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	n, err := s.seq.Next()
	if err != nil {
		return domain.Record{}, fmt.Errorf("next sequence: %w", err)
	}
	rec := domain.Record{
		ID:        uuid.NewString(),
		Text:      fields.Text,
		CreatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return domain.Record{}, err
	}
	key := fmt.Sprintf("obj:%s:%020d", table, n)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return domain.Record{}, fmt.Errorf("set %s: %w", key, err)
	}
	return rec, nil
}

// QueryAll scans the table prefix.
func (s *BadgerStore) QueryAll(ctx context.Context, table string) ([]domain.Record, error) {
	if !domain.ValidTable(table) {
		return nil, ErrInvalidTable
	}
	recs := []domain.Record{}
	prefix := []byte(fmt.Sprintf("obj:%s:", table))
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var r domain.Record
				if err := json.Unmarshal(v, &r); err != nil {
					s.log.Warn("Skipping unreadable object", "key", string(item.Key()), "error", err)
					return nil
				}
				recs = append(recs, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return recs, nil
}

// Close releases the sequence lease and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.log.Warn("Releasing badger sequence", "error", err)
	}
	return s.db.Close()
}
