package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Iron-Ham/classdesk/internal/logging"
)

// SQLiteFileName is the database file used by the sqlite backend inside the data directory.
const SQLiteFileName = "sessions.db"

// timeLayout is fixed-width so that updated_at values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// SQLiteDB holds every session's key/value entries in a single SQLite
// database. Use Session to obtain a Store scoped to one session.
type SQLiteDB struct {
	db     *sql.DB
	logger *logging.Logger
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
// Parent directories are created and the schema is applied automatically.
func OpenSQLite(path string, logger *logging.Logger) (*SQLiteDB, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteDB{db: db, logger: logger.WithComponent("sqlite")}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.logger.Debug("SQLite store initialized", "path", path)
	return s, nil
}

func (s *SQLiteDB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (session_id, key)
		);

		CREATE INDEX IF NOT EXISTS idx_kv_updated ON kv(session_id, updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Session returns a Store scoped to sessionID.
func (s *SQLiteDB) Session(sessionID string) *SQLiteStore {
	return &SQLiteStore{db: s.db, sessionID: sessionID}
}

// Sessions summarizes every session with at least one stored key.
func (s *SQLiteDB) Sessions(ctx context.Context) ([]Info, error) {
	query := `
		SELECT session_id, MAX(updated_at), COUNT(*)
		FROM kv
		GROUP BY session_id
		ORDER BY session_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var (
			info    Info
			updated string
		)
		if err := rows.Scan(&info.ID, &updated, &info.KeyCount); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		info.Backend = BackendSQLite
		if info.Updated, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at for session %s: %w", info.ID, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSession removes every entry belonging to sessionID.
func (s *SQLiteDB) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SQLiteStore is a Store over one session's rows in an SQLiteDB.
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

// SessionID returns the session this store is scoped to.
func (s *SQLiteStore) SessionID() string {
	return s.sessionID
}

// Save upserts key for the session.
func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("empty store key")
	}
	if data == nil {
		data = []byte{}
	}
	query := `
		INSERT OR REPLACE INTO kv (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		s.sessionID,
		key,
		data,
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Load returns the value of key for the session.
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE session_id = ? AND key = ?`,
		s.sessionID, key,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", key, err)
	}
	return data, nil
}

// Delete removes key for the session.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE session_id = ? AND key = ?`,
		s.sessionID, key,
	)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the session's keys with the given prefix, sorted.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE session_id = ? AND (? = '' OR instr(key, ?) = 1) ORDER BY key`,
		s.sessionID, prefix, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Exists reports whether key is stored for the session.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM kv WHERE session_id = ? AND key = ?`,
		s.sessionID, key,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return true, nil
}
