package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/classdesk/internal/config"
	"github.com/Iron-Ham/classdesk/internal/errors"
	"github.com/Iron-Ham/classdesk/internal/logging"
	"github.com/Iron-Ham/classdesk/internal/session"
	"github.com/Iron-Ham/classdesk/internal/workspace"
)

// sessionFlag is the --session value shared by shell and tabs.
var sessionFlag string

// env bundles the configuration and session manager a command works with.
type env struct {
	cfg     *config.Config
	manager *session.Manager
	logger  *logging.Logger
}

// newEnv loads the configuration and opens the session manager it names.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return newEnvWithConfig(cfg)
}

func newEnvWithConfig(cfg *config.Config) (*env, error) {
	manager, err := session.NewManager(session.Options{
		Backend: session.Backend(cfg.Session.Backend),
		DataDir: cfg.Session.ResolveDataDir(),
		TTL:     cfg.Session.TTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return &env{cfg: cfg, manager: manager, logger: logging.NopLogger()}, nil
}

// startLogging switches the env's logger to the session's debug log.
// Logging stays disabled when the configuration turns it off or the log
// file cannot be created.
func (e *env) startLogging(sessionID string) {
	if !e.cfg.Logging.Enabled {
		return
	}
	logger, err := logging.NewLogger(e.manager.SessionDir(sessionID), e.cfg.Logging.Level)
	if err != nil {
		return
	}
	e.logger = logger.WithSession(sessionID)
}

// Close releases the session manager and the log file.
func (e *env) Close() {
	_ = e.manager.Close()
	_ = e.logger.Close()
}

// resolveSession returns id when set, otherwise the most recently used
// session. With create set a new session ID is returned when none exist;
// otherwise it is an error.
func (e *env) resolveSession(ctx context.Context, id string, create bool) (string, error) {
	if id != "" {
		if !session.ValidID(id) {
			return "", fmt.Errorf("invalid session id %q", id)
		}
		return id, nil
	}

	infos, err := e.manager.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, info := range infos {
		if !info.IsLocked && !info.Expired(e.cfg.Session.TTL(), timeNow()) {
			return info.ID, nil
		}
	}
	if create {
		return session.NewID(), nil
	}
	return "", fmt.Errorf("no session to use: %w (run 'classdesk shell' to create one)", errors.ErrNotFound)
}

// dropExpired deletes session id when it has been idle longer than the
// configured TTL, so the next open starts it fresh. It must run before the
// session is locked.
func (e *env) dropExpired(ctx context.Context, id string) error {
	info, err := e.manager.Info(ctx, id)
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect session %s: %w", id, err)
	}
	if info.IsLocked || !info.Expired(e.cfg.Session.TTL(), timeNow()) {
		return nil
	}
	if err := e.manager.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove expired session: %w", err)
	}
	e.logger.Info("expired session removed", "session_id", id)
	return nil
}

// openWorkspace opens session id and returns its registry with persistence
// attached. An expired session is reported as an error matching
// errors.ErrSessionExpired.
func (e *env) openWorkspace(ctx context.Context, id string) (*workspace.Registry, *workspace.Bridge, error) {
	store, err := e.manager.Open(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session %s: %w", id, err)
	}

	bridge := workspace.NewBridge(store, e.logger)
	reg := workspace.NewRegistry(nil, e.logger, workspace.WithLabelPruning(e.cfg.Session.PruneLabelsOnClose))
	reg.Init(bridge.Restore(ctx))
	bridge.Attach(ctx, reg)
	return reg, bridge, nil
}
