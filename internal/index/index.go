package index

import "time"

// SessionIndex defines the catalog operations used while taking notes
// and by the sessions/search commands.
type SessionIndex interface {
	UpsertSession(s SessionRow) error
	ResetNotes(path string) error
	AddNote(n NoteRow) error
	SetChecksum(path, sum string, at time.Time) error
	GetChecksum(path string) (string, error)
	GetSession(path string) (*SessionRow, error)
	ListSessions(limit int) ([]SessionRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies SessionIndex at compile time.
var _ SessionIndex = (*DB)(nil)
