// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists synthesized research contexts in a local SQLite
// database. Sessions themselves are never written to disk; only the derived
// context, and only when the caller asks for it.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/webresearch/pkg/types"
)

const dbFile = "webresearch.db"

// Store manages the context archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at dir/webresearch.db and
// bootstraps the schema.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS contexts (
		session_id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		content TEXT NOT NULL,
		sources TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save upserts one research context keyed by session id.
func (s *Store) Save(ctx context.Context, rc types.ResearchContext) error {
	sources, err := json.Marshal(rc.Sources)
	if err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO contexts
		(session_id, query, content, sources, confidence, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			query = excluded.query,
			content = excluded.content,
			sources = excluded.sources,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at`,
		rc.SessionID, rc.Query, rc.Content, string(sources),
		rc.Confidence, rc.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving context %s: %w", rc.SessionID, err)
	}
	return nil
}

// Get returns one archived context by session id, or nil if absent.
func (s *Store) Get(ctx context.Context, sessionID string) (*types.ResearchContext, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_id, query, content, sources, confidence, updated_at
		FROM contexts WHERE session_id = ?`, sessionID)
	rc, err := scanContext(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading context %s: %w", sessionID, err)
	}
	return rc, nil
}

// List returns all archived contexts, most recent first.
func (s *Store) List(ctx context.Context) ([]types.ResearchContext, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, query, content, sources, confidence, updated_at
		FROM contexts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing contexts: %w", err)
	}
	defer rows.Close()

	var out []types.ResearchContext
	for rows.Next() {
		rc, err := scanContext(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning context row: %w", err)
		}
		out = append(out, *rc)
	}
	return out, rows.Err()
}

// ExportYAML writes every archived context to w as a YAML document.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	contexts, err := s.List(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(contexts)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContext(row scanner) (*types.ResearchContext, error) {
	var (
		rc        types.ResearchContext
		sources   string
		updatedAt string
	)
	if err := row.Scan(&rc.SessionID, &rc.Query, &rc.Content, &sources, &rc.Confidence, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sources), &rc.Sources); err != nil {
		return nil, fmt.Errorf("decoding sources: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		rc.UpdatedAt = t
	}
	return &rc, nil
}
