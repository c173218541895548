// Package errors provides centralized error definitions for classdesk.
//
// Most of the workspace core is total: invalid input to the tab registry is a
// silent no-op rather than an error. The errors defined here cover the parts
// that can genuinely fail: parsing a path into a tab key, decoding persisted
// session state, and talking to a session store.
//
// # Usage
//
//	if errors.Is(err, errors.ErrInvalidKey) { ... }
//
//	var wsErr *errors.WorkspaceError
//	if errors.As(err, &wsErr) {
//	    log.Warn("workspace operation failed", "op", wsErr.Op, "key", wsErr.Key)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Tab key errors
var (
	// ErrInvalidKey indicates that a path or string does not form a valid tab key.
	ErrInvalidKey = New("invalid tab key")
	// ErrPlaceholderKey indicates an operation that is not defined for the new-tab placeholder.
	ErrPlaceholderKey = New("placeholder tab key")
)

// Session and persistence errors
var (
	// ErrNotFound indicates that a key or session does not exist in the store.
	ErrNotFound = New("not found")
	// ErrCorruptState indicates that persisted workspace state could not be decoded.
	ErrCorruptState = New("workspace state corrupted")
	// ErrSessionExpired indicates that a session outlived its configured TTL.
	ErrSessionExpired = New("session expired")
	// ErrUnknownBackend indicates an unsupported session store backend name.
	ErrUnknownBackend = New("unknown session backend")
)

// -----------------------------------------------------------------------------
// WorkspaceError
// -----------------------------------------------------------------------------

// WorkspaceError describes a failed workspace operation on a specific key.
type WorkspaceError struct {
	Op  string // operation name, e.g. "parse", "restore", "save"
	Key string // tab key or store key involved, if any
	Err error  // underlying cause
}

// NewWorkspaceError creates a WorkspaceError for the given operation.
func NewWorkspaceError(op, key string, err error) *WorkspaceError {
	return &WorkspaceError{Op: op, Key: key, Err: err}
}

// Error implements the error interface.
func (e *WorkspaceError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Key != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Key))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// InvalidKey returns an error wrapping ErrInvalidKey with the offending input.
func InvalidKey(input, reason string) error {
	return NewWorkspaceError("parse", input, fmt.Errorf("%w: %s", ErrInvalidKey, reason))
}

// CorruptState returns an error wrapping ErrCorruptState for a store key.
func CorruptState(storeKey string, cause error) error {
	if cause == nil {
		return NewWorkspaceError("restore", storeKey, ErrCorruptState)
	}
	return NewWorkspaceError("restore", storeKey, fmt.Errorf("%w: %v", ErrCorruptState, cause))
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsCorrupt reports whether err indicates unreadable persisted state.
func IsCorrupt(err error) bool {
	return Is(err, ErrCorruptState)
}

// IsNotFound reports whether err indicates a missing key or session.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsInvalidKey reports whether err indicates a malformed tab key.
func IsInvalidKey(err error) bool {
	return Is(err, ErrInvalidKey)
}
