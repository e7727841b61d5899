package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

const (
	keyState  = "state"
	keyOffset = "debug_offset"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	value      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// snapshotRetention bounds the state history table.
const snapshotRetention = 50

// SQLiteStore keeps the current document plus a short history of prior
// snapshots in a single-file database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the SQLite database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// one writer; modernc sqlite serialises anyway
	db.SetMaxOpenConns(1)
	return db, nil
}

func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), nil
}

func putDocument(ctx context.Context, tx *sql.Tx, key, value string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.State, error) {
	b, err := s.get(ctx, keyState)
	if err != nil {
		return nil, err
	}
	return decodeState(b)
}

func (s *SQLiteStore) Save(ctx context.Context, st *model.State) error {
	b, err := encodeState(st)
	if err != nil {
		return err
	}
	now := time.Now()
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := putDocument(ctx, tx, keyState, string(b), now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (value, created_at) VALUES (?, ?)`,
			string(b), now.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
			snapshotRetention)
		return err
	})
}

func (s *SQLiteStore) LoadOffset(ctx context.Context) (int, error) {
	b, err := s.get(ctx, keyOffset)
	if err != nil {
		return 0, err
	}
	return decodeOffset(b)
}

func (s *SQLiteStore) SaveOffset(ctx context.Context, offset int) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return putDocument(ctx, tx, keyOffset, strconv.Itoa(offset), time.Now())
	})
}

// SnapshotCount reports how many historical snapshots are retained.
func (s *SQLiteStore) SnapshotCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
