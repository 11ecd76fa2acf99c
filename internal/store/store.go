// Package store provides the string-keyed record stores the board persists to.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrClosed        = errors.New("store is closed")
)

const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Store is a whole-record key/value store. Set replaces the value stored
// under key; there is no transaction spanning more than one record.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open opens the named backend rooted at dir, creating dir if needed.
func Open(backend, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch strings.ToLower(backend) {
	case "", BackendBadger:
		return NewBadgerStore(filepath.Join(dir, "badger"))
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "crewmap.db"))
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
