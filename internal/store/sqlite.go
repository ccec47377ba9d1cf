package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/inbox/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every pooled connection to :memory: would get its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// messageRow is the cached form of a model.Message.
type messageRow struct {
	ID       int       `db:"id"`
	Position int       `db:"position"`
	Subject  string    `db:"subject"`
	Body     string    `db:"body"`
	Read     bool      `db:"read"`
	Starred  bool      `db:"starred"`
	Labels   string    `db:"labels"`
	CachedAt time.Time `db:"cached_at"`
}

// ReplaceMessages swaps the cached snapshot for the given list. The
// selection flag is client-only and is not stored.
func (s *SQLiteStore) ReplaceMessages(
	ctx context.Context,
	messages []model.Message,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return fmt.Errorf("clearing message cache: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO messages (
			id, position, subject, body, read, starred, labels, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, m := range messages {
		labels := m.Labels
		if labels == nil {
			labels = []string{}
		}
		labelsJSON, err := json.Marshal(labels)
		if err != nil {
			return fmt.Errorf("marshaling labels for message %d: %w", m.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			m.ID, i, m.Subject, m.Body,
			boolToInt(m.Read), boolToInt(m.Starred),
			string(labelsJSON), now,
		)
		if err != nil {
			return fmt.Errorf("caching message %d: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// GetMessages returns the cached snapshot in list order.
func (s *SQLiteStore) GetMessages(ctx context.Context) ([]model.Message, error) {
	var rows []messageRow
	err := s.db.SelectContext(ctx, &rows, "SELECT * FROM messages ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying cached messages: %w", err)
	}

	messages := make([]model.Message, 0, len(rows))
	for _, r := range rows {
		m := model.Message{
			ID:      r.ID,
			Subject: r.Subject,
			Body:    r.Body,
			Read:    r.Read,
			Starred: r.Starred,
		}
		if err := json.Unmarshal([]byte(r.Labels), &m.Labels); err != nil {
			return nil, fmt.Errorf("unmarshaling labels for message %d: %w", r.ID, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
