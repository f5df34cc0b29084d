package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "session.db"

// Numbered NNN_name.up.sql files, applied in order inside a transaction each.
//
//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store owns the SQLite database holding the persisted CLI session.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docqa/data/session.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrationFiles); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate applies every up migration newer than the recorded schema version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.schemaVersion()
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	names, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		var version int
		if _, err := fmt.Sscanf(path.Base(name), "%d_", &version); err != nil || version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save replaces the stored session in one transaction.
func (s *sessionStore) Save(ctx context.Context, batch *domain.ExtractionBatch) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := clearTx(ctx, tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO session (id, ingested_at) VALUES (1, ?)",
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	for i, t := range batch.Texts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_texts (position, source_id, name, text, method)
			VALUES (?, ?, ?, ?, ?)
		`, i, t.SourceID, t.Name, t.Text, t.Method.String())
		if err != nil {
			return fmt.Errorf("saving text %d: %w", i, err)
		}
	}

	for i, d := range batch.Diagnostics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_diagnostics (position, source_id, name, kind, method, degraded, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i, d.SourceID, d.Name, d.Kind.String(), d.Method.String(), boolToInt(d.Degraded), d.Reason)
		if err != nil {
			return fmt.Errorf("saving diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

// Load returns the stored session, or domain.ErrNotFound if there is none.
func (s *sessionStore) Load(ctx context.Context) (*domain.ExtractionBatch, error) {
	var ingestedAt string
	err := s.store.db.QueryRowContext(ctx, "SELECT ingested_at FROM session WHERE id = 1").Scan(&ingestedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	batch := &domain.ExtractionBatch{}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT source_id, name, text, method FROM session_texts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying texts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t      domain.ExtractedText
			method string
		)
		if err := rows.Scan(&t.SourceID, &t.Name, &t.Text, &method); err != nil {
			return nil, fmt.Errorf("scanning text: %w", err)
		}
		t.Method = domain.ExtractionMethod(method)
		batch.Texts = append(batch.Texts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating texts: %w", err)
	}

	drows, err := s.store.db.QueryContext(ctx, `
		SELECT source_id, name, kind, method, degraded, reason
		FROM session_diagnostics ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var (
			d            domain.ExtractionDiagnostic
			kind, method string
			degraded     int
		)
		if err := drows.Scan(&d.SourceID, &d.Name, &kind, &method, &degraded, &d.Reason); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Kind = domain.Kind(kind)
		d.Method = domain.ExtractionMethod(method)
		d.Degraded = degraded != 0
		batch.Diagnostics = append(batch.Diagnostics, d)
	}
	if err := drows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}

	return batch, nil
}

// Clear removes the stored session.
func (s *sessionStore) Clear(ctx context.Context) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := clearTx(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Close is a no-op; the owning Store holds the connection.
func (s *sessionStore) Close() error {
	return nil
}

func clearTx(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"session_diagnostics", "session_texts", "session"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // fixed table names
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
