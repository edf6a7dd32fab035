package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/parser"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func session(path string) SessionRow {
	return SessionRow{Path: path, Stem: "algebra_review", Title: "Algebra Review", Number: 3, Format: "pdf"}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatalf("sessions table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestUpsertSession_KeepsCreatedAt(t *testing.T) {
	db := testDB(t)
	first := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)

	row := session("/s/algebra_review.log")
	row.CreatedAt = first
	require.NoError(t, db.UpsertSession(row))

	row.Title = "Algebra Review II"
	row.CreatedAt = later
	row.UpdatedAt = later
	require.NoError(t, db.UpsertSession(row))

	got, err := db.GetSession("/s/algebra_review.log")
	require.NoError(t, err)
	assert.Equal(t, "Algebra Review II", got.Title)
	assert.True(t, got.CreatedAt.Equal(first), "created_at = %v, want %v", got.CreatedAt, first)
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestGetSession_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetSession("/nope.log")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestChecksum(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("/s/unknown.log")
	require.NoError(t, err)
	assert.Empty(t, cs)

	require.NoError(t, db.UpsertSession(session("/s/a.log")))
	require.NoError(t, db.SetChecksum("/s/a.log", "abc123", time.Now()))

	cs, err = db.GetChecksum("/s/a.log")
	require.NoError(t, err)
	assert.Equal(t, "abc123", cs)

	// Upsert must not clobber the stored checksum.
	require.NoError(t, db.UpsertSession(session("/s/a.log")))
	cs, _ = db.GetChecksum("/s/a.log")
	assert.Equal(t, "abc123", cs)
}

func TestAddNoteAndList(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	a := session("/s/a.log")
	a.CreatedAt = base
	b := session("/s/b.txt")
	b.Stem, b.Title, b.Format = "b", "B", "text"
	b.CreatedAt = base
	require.NoError(t, db.UpsertSession(a))
	require.NoError(t, db.UpsertSession(b))

	require.NoError(t, db.AddNote(NoteRow{Session: a.Path, Stamp: "09:01 AM", Body: "one", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, db.AddNote(NoteRow{Session: a.Path, Body: "two", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, db.AddNote(NoteRow{Session: b.Path, Stamp: "10:00 AM", Body: "three", CreatedAt: base.Add(time.Hour)}))

	rows, err := db.ListSessions(0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.Path, rows[0].Path, "most recently updated first")
	assert.Equal(t, 1, rows[0].Notes)
	assert.Equal(t, 2, rows[1].Notes)
}

func TestResetNotes(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.UpsertSession(session("/s/a.log")))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Body: "gone soon"}))
	require.NoError(t, db.ResetNotes("/s/a.log"))

	got, err := db.GetSession("/s/a.log")
	require.NoError(t, err)
	assert.Zero(t, got.Notes)
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.UpsertSession(session("/s/a.log")))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Stamp: "09:15 AM", Body: "Define the Variable"}))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Body: "solve for x"}))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Kind: KindImage, Body: "variable.png"}))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Body: "100% sure"}))

	results, err := db.Search("variable", 10)
	require.NoError(t, err)
	require.Len(t, results, 1, "image rows are not searchable")
	assert.Equal(t, "Define the Variable", results[0].Body)
	assert.Equal(t, "09:15 AM", results[0].Stamp)
	assert.Equal(t, "Algebra Review", results[0].Title)

	results, err = db.Search("0%", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "100% sure", results[0].Body)

	results, err = db.Search("x_y", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "underscore is literal")
}

func TestReindex(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.UpsertSession(session("/s/a.log")))
	require.NoError(t, db.AddNote(NoteRow{Session: "/s/a.log", Body: "stale"}))

	tr := parser.Parse([]byte("Session 3: Algebra Review - 10-18-2026\n\n09:15 AM define variable\nsolve for x\n\n!image g.png"))
	require.NoError(t, Reindex(db, "/s/a.log", tr, time.Now()))

	got, err := db.GetSession("/s/a.log")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Notes)

	results, _ := db.Search("stale", 10)
	assert.Empty(t, results)
	results, _ = db.Search("solve", 10)
	assert.Len(t, results, 1)
}
