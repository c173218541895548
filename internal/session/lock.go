package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/classdesk/internal/logging"
)

// LockFileName is the name of the lock file within a session directory.
const LockFileName = "session.lock"

// processAlive reports whether pid is running. Tests replace it.
var processAlive = isProcessAlive

// Lock records which shell process owns a session.
type Lock struct {
	SessionID string    `json:"session_id"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`

	fs       afero.Fs
	lockFile string
	logger   *logging.Logger
}

// AcquireLock takes an exclusive lock on sessionDir for the current process.
// A lock left behind by a process that is no longer running is replaced.
// Returns ErrSessionLocked if a live process holds the lock. logger may be nil.
func AcquireLock(fs afero.Fs, sessionDir, sessionID string, logger *logging.Logger) (*Lock, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	lockPath := filepath.Join(sessionDir, LockFileName)

	if existing, err := ReadLock(fs, lockPath); err == nil {
		if processAlive(existing.PID) {
			logger.Error("failed to acquire lock",
				"session_id", sessionID,
				"reason", fmt.Sprintf("locked by PID %d on %s", existing.PID, existing.Hostname),
			)
			return nil, fmt.Errorf("%w: PID %d on %s", ErrSessionLocked, existing.PID, existing.Hostname)
		}
		if err := fs.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
		logger.Warn("stale lock cleaned", "session_id", sessionID, "old_pid", existing.PID)
	}

	if err := fs.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	lock := &Lock{
		SessionID: sessionID,
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		fs:        fs,
		lockFile:  lockPath,
		logger:    logger,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	// O_EXCL fails if another process created the file since we checked.
	f, err := fs.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: lock file appeared while acquiring", ErrSessionLocked)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		_ = fs.Remove(lockPath)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	logger.Info("session lock acquired", "session_id", sessionID, "pid", lock.PID)
	return lock, nil
}

// Release removes the lock file if this process still owns it.
// Safe to call multiple times and on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lockFile == "" {
		return nil
	}

	existing, err := ReadLock(l.fs, l.lockFile)
	if err != nil || existing.PID != l.PID {
		return nil
	}
	if err := l.fs.Remove(l.lockFile); err != nil {
		return err
	}
	if l.logger != nil {
		l.logger.Info("session lock released", "session_id", l.SessionID)
	}
	return nil
}

// ReadLock reads the lock file at lockPath.
func ReadLock(fs afero.Fs, lockPath string) (*Lock, error) {
	data, err := afero.ReadFile(fs, lockPath)
	if err != nil {
		return nil, err
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	lock.fs = fs
	lock.lockFile = lockPath
	return &lock, nil
}

// IsLocked reports whether a live process holds sessionDir's lock.
// The lock is returned even when it is stale.
func IsLocked(fs afero.Fs, sessionDir string) (*Lock, bool) {
	lock, err := ReadLock(fs, filepath.Join(sessionDir, LockFileName))
	if err != nil {
		return nil, false
	}
	return lock, processAlive(lock.PID)
}

// isProcessAlive checks if a process with the given PID is still running.
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks for existence without affecting the process.
	return process.Signal(syscall.Signal(0)) == nil
}
