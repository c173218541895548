// Package logging provides structured logging for classdesk sessions.
//
// This package wraps Go's log/slog to write JSON log lines. A shell session
// logs to {sessionDir}/debug.log so that a session's tab history can be
// inspected after the fact; CLI commands without a session log to stderr.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/session", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("tab opened", "key", "classroom/5a")
//
// # Context Propagation
//
//	wsLogger := logger.WithSession(sessionID).WithComponent("registry")
//	wsLogger.WithTab("student-jane-doe").Debug("label merged")
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"label merged","session_id":"...","component":"registry","tab":"student-jane-doe"}
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on emitted entries.
package logging
