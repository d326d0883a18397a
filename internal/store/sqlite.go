package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/devaloi/msgboard/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens or creates a SQLite database at the given path.
// Use ":memory:" for an in-memory database.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// An in-memory database only lives as long as its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS objects (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			object_id TEXT NOT NULL UNIQUE,
			class TEXT NOT NULL,
			text TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_objects_class_seq ON objects(class, seq);
	`)
	return err
}

// Create inserts an object into the given table.
func (s *SQLiteStore) Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error) {
	if !domain.ValidTable(table) {
		return domain.Record{}, ErrInvalidTable
	}
	rec := domain.Record{
		ID:        uuid.NewString(),
		Text:      fields.Text,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO objects (object_id, class, text, created_at) VALUES (?, ?, ?, ?)",
		rec.ID, table, rec.Text.Ptr(), rec.CreatedAt,
	)
	if err != nil {
		return domain.Record{}, fmt.Errorf("insert object: %w", err)
	}
	return rec, nil
}

// QueryAll returns all objects of a table in insertion order.
func (s *SQLiteStore) QueryAll(ctx context.Context, table string) ([]domain.Record, error) {
	if !domain.ValidTable(table) {
		return nil, ErrInvalidTable
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id, text, created_at FROM objects
		WHERE class = ?
		ORDER BY seq ASC
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	recs := []domain.Record{}
	for rows.Next() {
		var (
			r    domain.Record
			text sql.NullString
		)
		if err := rows.Scan(&r.ID, &text, &r.CreatedAt); err != nil {
			return nil, err
		}
		if text.Valid {
			r.Text = domain.SomeText(text.String)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
