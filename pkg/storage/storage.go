package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"excesoluz/pkg/config"
)

// ErrNotFound is returned by Get when no value is stored under the key
var ErrNotFound = errors.New("key not found")

// ErrInvalidKey is returned for empty keys or keys that cannot be used as a
// file name
var ErrInvalidKey = errors.New("invalid key")

// Storage is the key-value capability: get, set and remove by key
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Closer is implemented by backends that hold resources (database handles)
type Closer interface {
	Close() error
}

// Close releases s if it holds resources
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// ValidateKey rejects keys that are empty or contain path elements
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open builds the backend described by cfg. The encrypted wrapper is
// applied on top of the selected backend when cfg.Encrypt is set.
func Open(cfg config.StorageConfig) (Storage, error) {
	var (
		s   Storage
		err error
	)

	switch strings.ToLower(cfg.Backend) {
	case config.BackendMemory:
		s = NewMemoryStore()
	case config.BackendFile, "":
		dir := cfg.Directory
		if dir == "" {
			if dir, err = DataDirectory(); err != nil {
				return nil, fmt.Errorf("failed to get data directory: %w", err)
			}
			dir = filepath.Join(dir, "progreso")
		}
		s, err = NewFileStore(dir)
	case config.BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir := cfg.Directory
			if dir == "" {
				if dir, err = DataDirectory(); err != nil {
					return nil, fmt.Errorf("failed to get data directory: %w", err)
				}
			}
			path = filepath.Join(dir, "excesoluz.db")
		}
		s, err = NewSQLiteStore(path)
	case config.BackendKeyring:
		s, err = NewKeyringStore(cfg.KeyringService)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Encrypt {
		if cfg.Passphrase == "" {
			_ = Close(s)
			return nil, errors.New("encrypted storage requires a passphrase")
		}
		s = NewEncryptedStore(s, cfg.Passphrase)
	}

	return s, nil
}
