// Package document renders a session into a PDF. A Document accepts
// appends while Building and becomes immutable once Finalized; a resumed
// session rebuilds a fresh Document from its recovery log with Replay.
package document

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/parser"
)

// DefaultImageWidth is the rendered image width in millimetres.
const DefaultImageWidth = 120.0

const (
	fontFamily  = "Helvetica"
	fontSize    = 11
	titleSize   = 14
	lineHeight  = 6
	titleHeight = 8
)

// State is the lifecycle of a Document.
type State int

const (
	Building State = iota
	Finalized
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures a Document.
type Option func(*Document)

// WithImageWidth sets the width images are scaled to. Widths wider than
// the printable area are clamped to it.
func WithImageWidth(mm float64) Option {
	return func(d *Document) {
		if mm > 0 {
			d.imageWidth = mm
		}
	}
}

// Document is an append-only PDF under construction.
type Document struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	state      State
	imageWidth float64
	lines      []string
}

// New starts a Building document whose first line is title.
func New(title string, opts ...Option) *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("powerwords", true)
	pdf.AddPage()

	d := &Document{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		imageWidth: DefaultImageWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	if w := d.printableWidth(); d.imageWidth > w {
		d.imageWidth = w
	}

	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.MultiCell(0, titleHeight, d.tr(title), "", "L", false)
	pdf.SetFont(fontFamily, "", fontSize)
	d.lines = append(d.lines, title)
	return d
}

// State returns the current lifecycle state.
func (d *Document) State() State {
	return d.state
}

// Lines returns every line rendered so far in recovery log form, title
// first. Images appear as their marker line.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// WriteText renders text the way it is appended to the recovery log: the
// segment before the first newline continues the current line and every
// following segment is a line of its own.
func (d *Document) WriteText(text string) error {
	if err := d.building(); err != nil {
		return err
	}
	for i, seg := range splitLines(text) {
		if i == 0 && seg == "" {
			continue
		}
		d.line(seg)
	}
	return d.err()
}

// AddImage renders a blank line followed by the image at src. ref is the
// path recorded in the recovery log marker.
func (d *Document) AddImage(src, ref string) error {
	if err := d.building(); err != nil {
		return err
	}
	d.line("")
	d.image(src, ref)
	return d.err()
}

// Finalize writes the PDF to w. The document cannot be appended to or
// finalized again afterwards.
func (d *Document) Finalize(w io.Writer) error {
	if d.state == Finalized {
		return fmt.Errorf("document: finalize: %w", apperr.ErrFinalized)
	}
	d.state = Finalized
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("document: output: %w", err)
	}
	return nil
}

func (d *Document) building() error {
	if d.state != Building {
		return fmt.Errorf("document: append: %w", apperr.ErrFinalized)
	}
	return nil
}

func (d *Document) line(s string) {
	d.lines = append(d.lines, s)
	if s == "" {
		d.pdf.Ln(lineHeight)
		return
	}
	d.pdf.MultiCell(0, lineHeight, d.tr(s), "", "L", false)
}

// image draws src at the left margin at the current position and records
// the marker for ref. Callers emit the preceding blank line.
func (d *Document) image(src, ref string) {
	left, _, _, _ := d.pdf.GetMargins()
	d.pdf.ImageOptions(src, left, -1, d.imageWidth, 0, true, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	d.lines = append(d.lines, parser.ImageLine(ref))
}

func (d *Document) printableWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *Document) err() error {
	if d.pdf.Err() {
		return fmt.Errorf("document: render: %w", d.pdf.Error())
	}
	return nil
}

// ValidateImage reports whether the PDF renderer can embed the image at
// path. It loads the image into a scratch document so a bad file never
// poisons a live one.
func ValidateImage(path string) error {
	probe := fpdf.New("P", "mm", "A4", "")
	probe.RegisterImageOptions(path, fpdf.ImageOptions{ReadDpi: true})
	if probe.Err() {
		return probe.Error()
	}
	return nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
