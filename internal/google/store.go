package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrNotInitialized is returned by Save when the installation root has not
// been created by the explicit first-run step.
var ErrNotInitialized = errors.New("installation root does not exist, run `gworkspace-mcp auth init` first")

// CredentialStore persists the single Grant of an installation.
//
// Load returns (nil, nil) when there is no usable record, including when the
// stored data is unreadable or malformed. An error from Load means the store
// itself could not be reached. Save must be atomic: a concurrent or later
// Load never observes a partially written record.
type CredentialStore interface {
	Load(ctx context.Context) (*Grant, error)
	Save(ctx context.Context, g *Grant) error
	Clear(ctx context.Context) error
}

// FileStore keeps the grant as a JSON file with owner-only permissions.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a FileStore for path. The parent directory is never created.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the location of the credential file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (*Grant, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("credential file unreadable, treating as absent", "path", s.path, "error", err)
		}
		return nil, nil
	}

	var g Grant
	if err := json.Unmarshal(data, &g); err != nil {
		s.logger.Warn("credential file malformed, treating as absent", "path", s.path, "error", err)
		return nil, nil
	}
	if !g.usable() {
		return nil, nil
	}
	return &g, nil
}

func (s *FileStore) Save(_ context.Context, g *Grant) error {
	dir := filepath.Dir(s.path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return ErrNotInitialized
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode grant: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
