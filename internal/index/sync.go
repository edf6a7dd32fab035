package index

import (
	"fmt"
	"time"

	"github.com/starford/powerwords/internal/parser"
)

// Reindex replaces the stored notes of a session with those found in its
// transcript. Used when a resumed transcript's checksum no longer matches
// the index.
func Reindex(db SessionIndex, path string, t *parser.Transcript, at time.Time) error {
	if err := db.ResetNotes(path); err != nil {
		return err
	}
	for _, n := range t.Notes() {
		if err := db.AddNote(NoteRow{Session: path, Stamp: n.Stamp, Kind: KindNote, Body: n.Body, CreatedAt: at}); err != nil {
			return fmt.Errorf("index: reindex %s: %w", path, err)
		}
	}
	for _, img := range t.Images() {
		if err := db.AddNote(NoteRow{Session: path, Kind: KindImage, Body: img, CreatedAt: at}); err != nil {
			return fmt.Errorf("index: reindex %s: %w", path, err)
		}
	}
	return nil
}
