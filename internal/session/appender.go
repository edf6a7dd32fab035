package session

import (
	"strings"
	"time"

	"github.com/starford/powerwords/internal/clock"
	"github.com/starford/powerwords/internal/parser"
)

// Entry describes one append.
type Entry struct {
	At    time.Time
	Stamp string // set when the entry opened a new timestamped block
	Text  string
}

// Appender decides between a new timestamped block and a same-minute
// continuation. previous is the minute stamp of the last append made by
// this process; it starts empty so the first note is always stamped.
type Appender struct {
	backend  Backend
	clock    clock.Clock
	previous string
}

// NewAppender creates an Appender writing through backend.
func NewAppender(backend Backend, c clock.Clock) *Appender {
	if c == nil {
		c = clock.System{}
	}
	return &Appender{backend: backend, clock: c}
}

// Previous returns the minute stamp of the last append.
func (a *Appender) Previous() string {
	return a.previous
}

// Note appends text. Within the previous note's minute it is written after
// a single newline; otherwise it is prefixed with the time and written
// after two. Text that would read back as an image marker is always
// stamped.
func (a *Appender) Note(text string) (Entry, error) {
	now := a.clock.Now()
	stamp := clock.Stamp(now)
	e := Entry{At: now, Text: text}

	// A same-minute continuation gets exactly one newline. See "Newlines
	// between notes" in DESIGN.md before changing this.
	chunk := "\n" + text
	if stamp != a.previous || strings.HasPrefix(text, parser.ImageMarker) {
		chunk = "\n\n" + stamp + " " + text
		e.Stamp = stamp
	}
	if err := a.backend.AppendText(chunk); err != nil {
		return Entry{}, err
	}
	a.previous = stamp
	return e, nil
}

// Image appends an image. It never carries a timestamp but still moves
// the previous-minute marker.
func (a *Appender) Image(src, ref string) (Entry, error) {
	now := a.clock.Now()
	if err := a.backend.AppendImage(src, ref); err != nil {
		return Entry{}, err
	}
	a.previous = clock.Stamp(now)
	return Entry{At: now, Text: ref}, nil
}
