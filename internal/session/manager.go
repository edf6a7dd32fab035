package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/checksum"
	"github.com/starford/powerwords/internal/clock"
	"github.com/starford/powerwords/internal/index"
	"github.com/starford/powerwords/internal/parser"
)

// Manager coordinates the appender, the backend and the optional session
// index for one session.
type Manager struct {
	session  *Session
	backend  Backend
	appender *Appender
	index    index.SessionIndex
	clock    clock.Clock
	logger   *slog.Logger
}

// NewManager creates a Manager. idx may be nil.
func NewManager(s *Session, backend Backend, idx index.SessionIndex, c clock.Clock, logger *slog.Logger) *Manager {
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		session:  s,
		backend:  backend,
		appender: NewAppender(backend, c),
		index:    idx,
		clock:    c,
		logger:   logger,
	}
}

// Session returns the managed session.
func (m *Manager) Session() *Session {
	return m.session
}

// Register records the session in the index. For a resumed session it
// reports whether the transcript changed since the last recorded write,
// and reindexes its notes when it did.
func (m *Manager) Register() (tampered bool, err error) {
	if m.index == nil {
		return false, nil
	}
	path := m.session.TranscriptPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("session: read transcript: %w", err)
	}
	sum := checksum.Sum(data)
	now := m.clock.Now()

	row := index.SessionRow{
		Path:      path,
		Stem:      m.session.Stem,
		Title:     m.session.Title,
		Number:    m.session.Number,
		Format:    string(m.session.Variant),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if !m.session.Resumed {
		if err := m.index.UpsertSession(row); err != nil {
			return false, err
		}
		if err := m.index.ResetNotes(path); err != nil {
			return false, err
		}
		return false, m.index.SetChecksum(path, sum, now)
	}

	stored, err := m.index.GetChecksum(path)
	if err != nil {
		return false, err
	}
	if err := m.index.UpsertSession(row); err != nil {
		return false, err
	}
	if stored == sum {
		return false, nil
	}
	if err := index.Reindex(m.index, path, parser.Parse(data), now); err != nil {
		return false, err
	}
	if err := m.index.SetChecksum(path, sum, now); err != nil {
		return false, err
	}
	return stored != "", nil
}

// Note appends text as a note.
func (m *Manager) Note(text string) error {
	e, err := m.appender.Note(text)
	if err != nil {
		return err
	}
	m.logger.Debug("note appended", slog.String("stamp", e.Stamp), slog.Int("length", len(text)))
	m.record(index.NoteRow{Stamp: e.Stamp, Kind: index.KindNote, Body: text, CreatedAt: e.At})
	return nil
}

// Image validates path and inserts the image. Validation failures wrap
// apperr.ErrInvalidImage and leave the session untouched.
func (m *Manager) Image(path string) error {
	if m.session.Variant != Document {
		return fmt.Errorf("image: %w", apperr.ErrUnsupported)
	}
	if err := ValidateImage(path); err != nil {
		return err
	}
	src, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrInvalidImage, path, err)
	}
	ref := imageRef(m.session.Dir, src)

	e, err := m.appender.Image(src, ref)
	if err != nil {
		return err
	}
	m.logger.Debug("image appended", slog.String("ref", ref))
	m.record(index.NoteRow{Kind: index.KindImage, Body: ref, CreatedAt: e.At})
	return nil
}

// Quit finalizes the session and returns the output file path.
func (m *Manager) Quit() (string, error) {
	out, err := m.backend.Finalize()
	if err != nil {
		return "", err
	}
	m.logger.Info("session: finalized", slog.String("output", out))
	return out, nil
}

// Abort ends the session without finalizing anything.
func (m *Manager) Abort() string {
	m.logger.Info("session: aborted", slog.String("stem", m.session.Stem))
	return m.session.TranscriptPath()
}

// record mirrors an append into the index. Index problems are logged and
// never interrupt note taking.
func (m *Manager) record(n index.NoteRow) {
	if m.index == nil {
		return
	}
	path := m.session.TranscriptPath()
	n.Session = path
	if err := m.index.AddNote(n); err != nil {
		m.logger.Warn("index: add note failed", slog.String("error", err.Error()))
		return
	}
	sum, err := checksum.File(path)
	if err != nil {
		m.logger.Warn("index: checksum failed", slog.String("error", err.Error()))
		return
	}
	if err := m.index.SetChecksum(path, sum, n.CreatedAt); err != nil {
		m.logger.Warn("index: set checksum failed", slog.String("error", err.Error()))
	}
}
