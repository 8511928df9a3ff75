package google

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const credentialSchema = `CREATE TABLE IF NOT EXISTS credential (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	grant_json TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps the grant as the single row of a SQLite table.
type SQLiteStore struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	sqlDB *sql.DB
}

// NewSQLiteStore returns a store backed by the database at path. The
// database is opened lazily so that a missing installation root is never
// created as a side effect.
func NewSQLiteStore(path string, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{path: filepath.Clean(path), logger: logger}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sqlDB != nil {
		return s.sqlDB, nil
	}

	dsn := s.path + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, credentialSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create credential table: %w", err)
	}
	s.sqlDB = sqlDB
	return sqlDB, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Grant, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	var raw string
	err = db.QueryRowContext(ctx, `SELECT grant_json FROM credential WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("credential row unreadable, treating as absent", "path", s.path, "error", err)
		return nil, nil
	}

	var g Grant
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		s.logger.Warn("credential row malformed, treating as absent", "path", s.path, "error", err)
		return nil, nil
	}
	if !g.usable() {
		return nil, nil
	}
	return &g, nil
}

func (s *SQLiteStore) Save(ctx context.Context, g *Grant) error {
	if _, err := os.Stat(filepath.Dir(s.path)); errors.Is(err, os.ErrNotExist) {
		return ErrNotInitialized
	}

	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode grant: %w", err)
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO credential (id, grant_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET grant_json = excluded.grant_json, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save grant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM credential`); err != nil {
		return fmt.Errorf("clear grant: %w", err)
	}
	return nil
}

// Close closes the database handle if it was opened.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}
