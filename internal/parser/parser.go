// Package parser reads session transcripts: the plain-text session file
// and the recovery log that mirrors a PDF session.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// ImageMarker prefixes recovery log lines that reference an image.
const ImageMarker = "!image "

var (
	headerRe = regexp.MustCompile(`^Session (-?\d+): (.*) - (\d{2}-\d{2}-\d{4})$`)
	stampRe  = regexp.MustCompile(`^(\d{2}:\d{2} [AP]M) (.*)$`)
)

// Kind classifies one transcript line.
type Kind int

const (
	KindText Kind = iota
	KindBlank
	KindImage
)

// Line is one line of a transcript after the title line.
type Line struct {
	Kind Kind
	Text string // raw line as written
	Path string // image reference, KindImage only
}

// Transcript is a parsed session file.
type Transcript struct {
	Title string
	Lines []Line
}

// Header is the parsed first line of a session file.
type Header struct {
	Number int
	Title  string
	Date   string
}

// Note is one indexed note recovered from a transcript.
type Note struct {
	Stamp string // empty for same-minute continuations
	Body  string
}

// Parse splits data into the title line and the classified lines that follow.
func Parse(data []byte) *Transcript {
	t := &Transcript{}
	if len(data) == 0 {
		return t
	}
	raw := strings.Split(string(data), "\n")
	t.Title = strings.TrimSuffix(raw[0], "\r")
	for _, l := range raw[1:] {
		t.Lines = append(t.Lines, classify(strings.TrimSuffix(l, "\r")))
	}
	return t
}

func classify(l string) Line {
	switch {
	case l == "":
		return Line{Kind: KindBlank}
	case strings.HasPrefix(l, ImageMarker):
		return Line{Kind: KindImage, Text: l, Path: strings.TrimSpace(l[len(ImageMarker):])}
	default:
		return Line{Kind: KindText, Text: l}
	}
}

// ImageLine returns the recovery log line for an image reference.
func ImageLine(path string) string {
	return ImageMarker + path
}

// ParseHeader extracts number, title and date from a header line of the
// form "Session N: Title - MM-DD-YYYY".
func ParseHeader(line string) (Header, bool) {
	m := headerRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Header{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Header{}, false
	}
	return Header{Number: n, Title: m[2], Date: m[3]}, true
}

// Notes returns the text lines of t split into stamp and body.
func (t *Transcript) Notes() []Note {
	var out []Note
	for _, l := range t.Lines {
		if l.Kind != KindText {
			continue
		}
		if m := stampRe.FindStringSubmatch(l.Text); m != nil {
			out = append(out, Note{Stamp: m[1], Body: m[2]})
			continue
		}
		out = append(out, Note{Body: l.Text})
	}
	return out
}

// Images returns every image reference in t, in order.
func (t *Transcript) Images() []string {
	var out []string
	for _, l := range t.Lines {
		if l.Kind == KindImage {
			out = append(out, l.Path)
		}
	}
	return out
}
