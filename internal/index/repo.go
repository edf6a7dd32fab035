package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/powerwords/internal/apperr"
)

// Note kinds.
const (
	KindNote  = "note"
	KindImage = "image"
)

// SessionRow represents a row in the sessions table. Path is the absolute
// path of the session transcript (.txt or .log).
type SessionRow struct {
	Path      string
	Stem      string
	Title     string
	Number    int
	Format    string
	Checksum  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Notes     int // populated by ListSessions
}

// NoteRow represents one appended note or image.
type NoteRow struct {
	Session   string
	Stamp     string
	Kind      string
	Body      string
	CreatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path  string
	Title string
	Stamp string
	Body  string
}

// UpsertSession inserts a session or refreshes its descriptive fields,
// keeping the original created_at.
func (db *DB) UpsertSession(s SessionRow) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.CreatedAt
	}
	_, err := db.conn.Exec(`
		INSERT INTO sessions (path, stem, title, number, format, checksum, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			stem       = excluded.stem,
			title      = excluded.title,
			number     = excluded.number,
			format     = excluded.format,
			updated_at = excluded.updated_at
	`, s.Path, s.Stem, s.Title, s.Number, s.Format, s.Checksum, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert session: %w", err)
	}
	return nil
}

// ResetNotes deletes every note of a session.
func (db *DB) ResetNotes(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM notes WHERE session = ?`, path); err != nil {
		return fmt.Errorf("index: reset notes: %w", err)
	}
	return nil
}

// AddNote records a note and bumps the session's updated_at.
func (db *DB) AddNote(n NoteRow) error {
	if n.Kind == "" {
		n.Kind = KindNote
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`
		INSERT INTO notes (session, stamp, kind, body, created_at) VALUES (?, ?, ?, ?, ?)
	`, n.Session, n.Stamp, n.Kind, n.Body, n.CreatedAt); err != nil {
		return fmt.Errorf("index: insert note: %w", err)
	}
	if _, err := tx.Exec(`UPDATE sessions SET updated_at = ? WHERE path = ?`, n.CreatedAt, n.Session); err != nil {
		return fmt.Errorf("index: touch session: %w", err)
	}
	return tx.Commit()
}

// SetChecksum stores the transcript checksum observed after the last write.
func (db *DB) SetChecksum(path, sum string, at time.Time) error {
	if _, err := db.conn.Exec(`UPDATE sessions SET checksum = ?, updated_at = ? WHERE path = ?`, sum, at, path); err != nil {
		return fmt.Errorf("index: set checksum: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a session, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sessions WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// GetSession returns one session row or apperr.ErrNotFound.
func (db *DB) GetSession(path string) (*SessionRow, error) {
	var s SessionRow
	err := db.conn.QueryRow(`
		SELECT s.path, s.stem, s.title, s.number, s.format, s.checksum, s.created_at, s.updated_at,
		       (SELECT count(*) FROM notes n WHERE n.session = s.path)
		FROM sessions s WHERE s.path = ?
	`, path).Scan(&s.Path, &s.Stem, &s.Title, &s.Number, &s.Format, &s.Checksum, &s.CreatedAt, &s.UpdatedAt, &s.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get session: %w", err)
	}
	return &s, nil
}

// ListSessions returns sessions, most recently updated first.
func (db *DB) ListSessions(limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT s.path, s.stem, s.title, s.number, s.format, s.checksum, s.created_at, s.updated_at,
		       (SELECT count(*) FROM notes n WHERE n.session = s.path)
		FROM sessions s
		ORDER BY s.updated_at DESC, s.path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var s SessionRow
		if err := rows.Scan(&s.Path, &s.Stem, &s.Title, &s.Number, &s.Format, &s.Checksum, &s.CreatedAt, &s.UpdatedAt, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Search performs a case-insensitive substring search over note bodies.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + escapeLike(query) + "%"
	rows, err := db.conn.Query(`
		SELECT n.session, s.title, n.stamp, n.body
		FROM notes n JOIN sessions s ON s.path = n.session
		WHERE n.kind = ? AND n.body LIKE ? ESCAPE '\'
		ORDER BY n.id
		LIMIT ?
	`, KindNote, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Stamp, &r.Body); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
