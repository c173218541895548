// Package session provides the session-scoped key/value stores that hold a
// workspace's persisted tab state, along with session discovery, locking and
// expiry. Stores are available on the local filesystem (through afero), in a
// shared SQLite database, or purely in memory.
package session

import (
	"context"
	"time"

	"github.com/Iron-Ham/classdesk/internal/errors"
)

// ErrNotFound is returned when a requested key or session does not exist.
// It is the same sentinel as errors.ErrNotFound so callers outside this
// package can match it without importing session.
var ErrNotFound = errors.ErrNotFound

// ErrSessionLocked is returned when a session is already in use by another process.
var ErrSessionLocked = errors.New("session is locked by another process")

// Backend names a store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Backends returns every supported backend name.
func Backends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// Store provides key-value persistence scoped to a single session.
type Store interface {
	// Save persists data with the given key, overwriting any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves data for the given key.
	// Returns ErrNotFound if the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data associated with the given key.
	// Returns ErrNotFound if the key does not exist.
	Delete(ctx context.Context, key string) error

	// List returns all keys with the given prefix, sorted.
	// An empty prefix returns all keys.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if a key exists without loading its data.
	Exists(ctx context.Context, key string) (bool, error)
}

// Info summarizes a stored session.
type Info struct {
	ID         string    `json:"id"`
	Backend    Backend   `json:"backend"`
	Updated    time.Time `json:"updated"`
	KeyCount   int       `json:"key_count"`
	IsLocked   bool      `json:"is_locked"`
	LockInfo   *Lock     `json:"lock_info,omitempty"`
	SessionDir string    `json:"session_dir,omitempty"`
}

// Expired reports whether the session has been idle longer than ttl at now.
// A non-positive ttl never expires.
func (i Info) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && !i.Updated.IsZero() && now.Sub(i.Updated) > ttl
}
