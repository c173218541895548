package session

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/classdesk/internal/errors"
	"github.com/Iron-Ham/classdesk/internal/logging"
)

// SessionsDir is the directory within the data directory that holds one
// subdirectory per session (its log file, lock file and, for the file
// backend, its stored keys).
const SessionsDir = "sessions"

// StateDir is the file backend's key directory inside a session directory.
const StateDir = "state"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id can name a session.
func ValidID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// Options configures a Manager.
type Options struct {
	Backend Backend
	DataDir string
	// TTL is the inactivity period after which a session expires.
	// Zero disables expiry.
	TTL time.Duration
	// Fs is the filesystem for session directories; defaults to the OS filesystem.
	Fs     afero.Fs
	Logger *logging.Logger
}

// Manager opens, lists and expires sessions for one backend.
type Manager struct {
	backend Backend
	dataDir string
	ttl     time.Duration
	fs      afero.Fs
	logger  *logging.Logger

	sqlite *SQLiteDB

	mu     sync.Mutex
	memory map[string]*MemoryStore
}

// NewManager creates a Manager. It returns an error matching
// errors.ErrUnknownBackend for unsupported backend names.
func NewManager(opts Options) (*Manager, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Backend == "" {
		opts.Backend = BackendFile
	}

	m := &Manager{
		backend: opts.Backend,
		dataDir: opts.DataDir,
		ttl:     opts.TTL,
		fs:      opts.Fs,
		logger:  opts.Logger.WithComponent("session"),
		memory:  make(map[string]*MemoryStore),
	}

	switch opts.Backend {
	case BackendFile, BackendMemory:
	case BackendSQLite:
		db, err := OpenSQLite(filepath.Join(opts.DataDir, SQLiteFileName), opts.Logger)
		if err != nil {
			return nil, err
		}
		m.sqlite = db
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownBackend, opts.Backend)
	}
	return m, nil
}

// Backend returns the backend the manager stores sessions in.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Fs returns the filesystem holding session directories.
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// SessionsDir returns the directory containing all session directories.
func (m *Manager) SessionsDir() string {
	return filepath.Join(m.dataDir, SessionsDir)
}

// SessionDir returns the directory for a specific session.
func (m *Manager) SessionDir(id string) string {
	return filepath.Join(m.SessionsDir(), id)
}

// Open returns the store for session id, creating the session if it does
// not exist. An existing session idle for longer than the TTL yields an
// error matching errors.ErrSessionExpired; callers may Delete it and retry.
func (m *Manager) Open(ctx context.Context, id string) (Store, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}

	info, err := m.Info(ctx, id)
	switch {
	case err == nil && info.Expired(m.ttl, time.Now()):
		return nil, fmt.Errorf("%w: %s idle since %s", errors.ErrSessionExpired, id, info.Updated.Format(time.RFC3339))
	case err != nil && !errors.IsNotFound(err):
		return nil, err
	}

	switch m.backend {
	case BackendSQLite:
		return m.sqlite.Session(id), nil
	case BackendMemory:
		m.mu.Lock()
		defer m.mu.Unlock()
		store, ok := m.memory[id]
		if !ok {
			store = NewMemoryStore()
			m.memory[id] = store
		}
		return store, nil
	default:
		store, err := NewFileStore(m.fs, filepath.Join(m.SessionDir(id), StateDir))
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// Lock takes the process lock for session id.
func (m *Manager) Lock(id string) (*Lock, error) {
	return AcquireLock(m.fs, m.SessionDir(id), id, m.logger)
}

// Info summarizes session id. Returns ErrNotFound if it has no stored data.
func (m *Manager) Info(ctx context.Context, id string) (Info, error) {
	infos, err := m.List(ctx)
	if err != nil {
		return Info{}, err
	}
	for _, info := range infos {
		if info.ID == id {
			return info, nil
		}
	}
	return Info{}, ErrNotFound
}

// List returns every session with stored data, most recently used first.
func (m *Manager) List(ctx context.Context) ([]Info, error) {
	var (
		infos []Info
		err   error
	)
	switch m.backend {
	case BackendSQLite:
		infos, err = m.sqlite.Sessions(ctx)
	case BackendMemory:
		infos = m.memorySessions()
	default:
		infos, err = m.fileSessions()
	}
	if err != nil {
		return nil, err
	}

	for i := range infos {
		dir := m.SessionDir(infos[i].ID)
		infos[i].SessionDir = dir
		infos[i].LockInfo, infos[i].IsLocked = IsLocked(m.fs, dir)
	}
	slices.SortStableFunc(infos, func(a, b Info) int {
		return cmp.Or(b.Updated.Compare(a.Updated), cmp.Compare(a.ID, b.ID))
	})
	return infos, nil
}

func (m *Manager) fileSessions() ([]Info, error) {
	entries, err := afero.ReadDir(m.fs, m.SessionsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info := Info{ID: entry.Name(), Backend: BackendFile}
		stateDir := filepath.Join(m.SessionsDir(), entry.Name(), StateDir)
		walkErr := afero.Walk(m.fs, stateDir, func(path string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() {
				return nil
			}
			info.KeyCount++
			if fi.ModTime().After(info.Updated) {
				info.Updated = fi.ModTime()
			}
			return nil
		})
		if walkErr != nil || info.KeyCount == 0 {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m *Manager) memorySessions() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	var infos []Info
	for id, store := range m.memory {
		if n := store.Len(); n > 0 {
			infos = append(infos, Info{ID: id, Backend: BackendMemory, KeyCount: n})
		}
	}
	return infos
}

// Delete removes a session's stored data and its session directory.
// Deleting a session locked by a live process fails with ErrSessionLocked.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return fmt.Errorf("invalid session id %q", id)
	}
	dir := m.SessionDir(id)
	if lock, locked := IsLocked(m.fs, dir); locked {
		return fmt.Errorf("%w: PID %d on %s", ErrSessionLocked, lock.PID, lock.Hostname)
	}

	switch m.backend {
	case BackendSQLite:
		if err := m.sqlite.DeleteSession(ctx, id); err != nil && !errors.IsNotFound(err) {
			return err
		}
	case BackendMemory:
		m.mu.Lock()
		delete(m.memory, id)
		m.mu.Unlock()
	}

	if err := m.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove session directory: %w", err)
	}
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// Clean deletes every unlocked session that has expired at now and returns
// their IDs. With a zero TTL nothing expires.
func (m *Manager) Clean(ctx context.Context, now time.Time) ([]string, error) {
	infos, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, info := range infos {
		if info.IsLocked || !info.Expired(m.ttl, now) {
			continue
		}
		if err := m.Delete(ctx, info.ID); err != nil {
			m.logger.Warn("failed to clean session", "session_id", info.ID, "error", err.Error())
			continue
		}
		removed = append(removed, info.ID)
	}
	return removed, nil
}

// Close releases backend resources.
func (m *Manager) Close() error {
	if m.sqlite != nil {
		return m.sqlite.Close()
	}
	return nil
}
