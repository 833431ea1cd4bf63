package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS translations (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	translation TEXT NOT NULL,
	target      TEXT NOT NULL,
	mode        TEXT NOT NULL,
	created_at  INTEGER NOT NULL
)`

// Entry is one completed translation
type Entry struct {
	ID          string
	Source      string
	Translation string
	Target      string
	Mode        string
	CreatedAt   time.Time
}

// Store persists entries in a SQLite database
type Store struct {
	db *sql.DB
}

// DefaultPath returns the history database location under the XDG state dir
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "deeptranslate", "history.db")
}

// Open opens (and creates if needed) the database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// NewStore wraps an already opened database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the schema
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Record stores a completed translation
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (id, source, translation, target, mode, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Translation, e.Target, e.Mode, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record translation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, translation, target, mode, created_at FROM translations ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Source, &e.Translation, &e.Target, &e.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return entries, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
