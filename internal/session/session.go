// Package session owns one note-taking session: creating or resuming its
// backing files, deciding when notes get a timestamp, and writing every
// note through to disk before the next one is accepted.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/clock"
	"github.com/starford/powerwords/internal/command"
)

// Variant selects the backing store layout.
type Variant string

const (
	// Text keeps the session in <stem>.txt.
	Text Variant = "text"
	// Document renders <stem>.pdf and mirrors it to <stem>.log.
	Document Variant = "pdf"
)

// File extensions.
const (
	TextExt     = ".txt"
	DocumentExt = ".pdf"
	LogExt      = ".log"
)

// ParseVariant maps a format name to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return Text, nil
	case "pdf", "document":
		return Document, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: text, pdf)", apperr.ErrUnsupportedFormat, s)
	}
}

// VariantForFile returns the variant a resume file belongs to.
func VariantForFile(path string) (Variant, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case TextExt:
		return Text, true
	case DocumentExt:
		return Document, true
	default:
		return "", false
	}
}

// Commands returns the interactive commands the variant understands.
func (v Variant) Commands() command.Set {
	return command.Set{Abort: v == Text, Images: v == Document}
}

// Session identifies one sequence of notes. It does not change after
// startup.
type Session struct {
	Title   string
	Number  int
	Stem    string
	Variant Variant
	Dir     string // absolute directory holding the session files
	Resumed bool
}

// Transcript is the file name of the plain-text transcript: the session
// file itself for Text, the recovery log for Document.
func (s *Session) Transcript() string {
	if s.Variant == Document {
		return s.Stem + LogExt
	}
	return s.Stem + TextExt
}

// Output is the file name written on quit.
func (s *Session) Output() string {
	if s.Variant == Document {
		return s.Stem + DocumentExt
	}
	return s.Stem + TextExt
}

// TranscriptPath is the absolute path of the transcript.
func (s *Session) TranscriptPath() string {
	return filepath.Join(s.Dir, s.Transcript())
}

// Stem derives the file name stem from a title: lowercased, with every
// space replaced by an underscore.
func Stem(title string) string {
	return strings.Join(strings.Split(strings.ToLower(title), " "), "_")
}

// Header is the first line of every session file.
func Header(number int, title string, day time.Time) string {
	return fmt.Sprintf("Session %d: %s - %s", number, title, clock.Date(day))
}
