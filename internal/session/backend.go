package session

import (
	"bytes"
	"fmt"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/document"
	"github.com/starford/powerwords/internal/parser"
	"github.com/starford/powerwords/internal/storage"
)

// Backend persists appended text. Every call reaches disk before it
// returns.
type Backend interface {
	// Create starts a fresh store whose first line is header, replacing
	// any existing files of the same name.
	Create(header string) error
	// AppendText appends text verbatim.
	AppendText(text string) error
	// AppendImage appends a blank line and the image at src, recorded as ref.
	AppendImage(src, ref string) error
	// Finalize produces the output file and returns its absolute path.
	Finalize() (string, error)
}

// TextBackend appends to a single plain-text file.
type TextBackend struct {
	store storage.Provider
	name  string
}

// NewTextBackend writes to name inside store.
func NewTextBackend(store storage.Provider, name string) *TextBackend {
	return &TextBackend{store: store, name: name}
}

func (b *TextBackend) Create(header string) error {
	return b.store.Create(b.name, []byte(header))
}

func (b *TextBackend) AppendText(text string) error {
	return b.store.Append(b.name, []byte(text))
}

func (b *TextBackend) AppendImage(_, _ string) error {
	return fmt.Errorf("image: %w", apperr.ErrUnsupported)
}

// Finalize has nothing to render; the text file is already complete.
func (b *TextBackend) Finalize() (string, error) {
	return b.store.Abs(b.name)
}

// DocumentBackend renders into a live PDF document and mirrors every
// append to the recovery log in the same call, log first.
type DocumentBackend struct {
	store   storage.Provider
	logName string
	pdfName string
	doc     *document.Document
	opts    []document.Option
}

// NewDocumentBackend writes logName and, on Finalize, pdfName. doc may be
// nil until Create is called; a resumed session passes its replayed
// document.
func NewDocumentBackend(store storage.Provider, logName, pdfName string, doc *document.Document, opts ...document.Option) *DocumentBackend {
	return &DocumentBackend{store: store, logName: logName, pdfName: pdfName, doc: doc, opts: opts}
}

// Document returns the live document.
func (b *DocumentBackend) Document() *document.Document {
	return b.doc
}

func (b *DocumentBackend) Create(header string) error {
	if err := b.store.Create(b.logName, []byte(header)); err != nil {
		return err
	}
	b.doc = document.New(header, b.opts...)
	return nil
}

func (b *DocumentBackend) AppendText(text string) error {
	if err := b.ready(); err != nil {
		return err
	}
	if err := b.store.Append(b.logName, []byte(text)); err != nil {
		return err
	}
	return b.doc.WriteText(text)
}

func (b *DocumentBackend) AppendImage(src, ref string) error {
	if err := b.ready(); err != nil {
		return err
	}
	if err := b.store.Append(b.logName, []byte("\n\n"+parser.ImageLine(ref))); err != nil {
		return err
	}
	return b.doc.AddImage(src, ref)
}

func (b *DocumentBackend) Finalize() (string, error) {
	if b.doc == nil {
		return "", fmt.Errorf("session: finalize before create")
	}
	var buf bytes.Buffer
	if err := b.doc.Finalize(&buf); err != nil {
		return "", err
	}
	if err := b.store.Create(b.pdfName, buf.Bytes()); err != nil {
		return "", err
	}
	return b.store.Abs(b.pdfName)
}

// ready rejects appends the document could not take, before the log is
// touched.
func (b *DocumentBackend) ready() error {
	if b.doc == nil {
		return fmt.Errorf("session: append before create")
	}
	if b.doc.State() == document.Finalized {
		return fmt.Errorf("session: append: %w", apperr.ErrFinalized)
	}
	return nil
}
