package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gic-cinemas/config"
	"gic-cinemas/model"
)

const appDir = "gic-cinemas"

// Store keeps the full theatre state: title, dimensions and booking ledger.
type Store interface {
	// Load returns the saved theatre; ok is false when nothing was saved yet.
	Load(ctx context.Context) (theatre model.Theatre, ok bool, err error)
	Save(ctx context.Context, theatre model.Theatre) error
	Reset(ctx context.Context) error
	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		if path := sqliteFilePath(cfg.SQLiteDSN); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(ctx, cfg.SQLiteDSN)
	case config.StoreJSON, "":
		path := cfg.StateFile
		if path == "" {
			var err error
			if path, err = DefaultStatePath(); err != nil {
				return nil, err
			}
		}
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// FileStore persists the theatre as an indented JSON document. It is safe for
// concurrent use; each save goes through its own temp file and is renamed
// over the document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath is movie.json under the user config directory.
func DefaultStatePath() (string, error) {
	return configPath("movie.json")
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (model.Theatre, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Theatre{}, false, nil
		}
		return model.Theatre{}, false, err
	}

	var theatre model.Theatre
	if err := json.Unmarshal(data, &theatre); err != nil {
		return model.Theatre{}, false, errors.New("invalid theatre state format")
	}
	if theatre.Bookings == nil {
		theatre.Bookings = []model.Booking{}
	}
	return theatre, true, nil
}

func (s *FileStore) Save(_ context.Context, theatre model.Theatre) error {
	if theatre.Bookings == nil {
		theatre.Bookings = []model.Booking{}
	}
	payload, err := json.MarshalIndent(theatre, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal theatre: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

// sqliteFilePath extracts the database file from a "file:" DSN. In-memory
// databases have no file.
func sqliteFilePath(dsn string) string {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || strings.Contains(path, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	return path
}
