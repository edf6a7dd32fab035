package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/clock"
	"github.com/starford/powerwords/internal/document"
	"github.com/starford/powerwords/internal/parser"
	"github.com/starford/powerwords/internal/storage"
)

// Options configures session startup.
type Options struct {
	Dir        string
	Variant    Variant
	ImageWidth float64
	Clock      clock.Clock
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Variant == "" {
		o.Variant = Document
	}
	if o.Clock == nil {
		o.Clock = clock.System{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) documentOptions() []document.Option {
	if o.ImageWidth > 0 {
		return []document.Option{document.WithImageWidth(o.ImageWidth)}
	}
	return nil
}

// Start prompts for a title and number and creates a fresh backing store,
// truncating any files left by an earlier session of the same name.
func Start(p *Prompter, opts Options) (*Session, Backend, error) {
	opts = opts.withDefaults()

	title, err := p.Title()
	if err != nil {
		return nil, nil, fmt.Errorf("session: read title: %w", err)
	}
	number, err := p.Number()
	if err != nil {
		return nil, nil, fmt.Errorf("session: read number: %w", err)
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("session: create dir: %w", err)
	}
	store, err := storage.NewFS(opts.Dir)
	if err != nil {
		return nil, nil, err
	}

	s := &Session{
		Title:   title,
		Number:  number,
		Stem:    Stem(title),
		Variant: opts.Variant,
		Dir:     store.Root(),
	}

	var backend Backend
	if s.Variant == Document {
		backend = NewDocumentBackend(store, s.Transcript(), s.Output(), nil, opts.documentOptions()...)
	} else {
		backend = NewTextBackend(store, s.Transcript())
	}
	if err := backend.Create(Header(number, title, opts.Clock.Now())); err != nil {
		return nil, nil, err
	}

	opts.Logger.Info("session: created",
		slog.String("stem", s.Stem),
		slog.String("format", string(s.Variant)),
		slog.String("dir", s.Dir))
	return s, backend, nil
}

// CheckResumePath validates a resume file without touching it. The
// extension picks the variant; a PDF also needs its recovery log beside
// it. Every failure is an apperr.ArgumentError.
func CheckResumePath(path string) (Variant, error) {
	const arg = "--file"
	v, ok := VariantForFile(path)
	if !ok {
		return "", apperr.Argument(arg, fmt.Errorf("%s: %w: expected a %s or %s file", path, apperr.ErrUnsupportedFormat, TextExt, DocumentExt))
	}
	if err := regularFile(path); err != nil {
		return "", apperr.Argument(arg, err)
	}
	if v == Document {
		if err := regularFile(recoveryLogFor(path)); err != nil {
			return "", apperr.Argument(arg, fmt.Errorf("recovery log: %w", err))
		}
	}
	return v, nil
}

// Resume reopens the session stored at path. Its identity comes from the
// file name and header; no prompts are shown. A document session is
// rebuilt from its recovery log.
func Resume(path string, opts Options) (*Session, Backend, error) {
	opts = opts.withDefaults()

	v, err := CheckResumePath(path)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewFS(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	base := filepath.Base(path)
	s := &Session{
		Stem:    strings.TrimSuffix(base, filepath.Ext(base)),
		Variant: v,
		Dir:     store.Root(),
		Resumed: true,
	}

	data, err := store.Read(s.Transcript())
	if err != nil {
		return nil, nil, err
	}
	t := parser.Parse(data)
	s.Title = s.Stem
	if h, ok := parser.ParseHeader(t.Title); ok {
		s.Title, s.Number = h.Title, h.Number
	}

	var backend Backend
	if v == Document {
		doc, err := document.Replay(data, s.Dir, opts.Logger, opts.documentOptions()...)
		if err != nil {
			return nil, nil, fmt.Errorf("session: replay %s: %w", s.Transcript(), err)
		}
		backend = NewDocumentBackend(store, s.Transcript(), s.Output(), doc, opts.documentOptions()...)
	} else {
		backend = NewTextBackend(store, s.Transcript())
	}

	opts.Logger.Info("session: resumed",
		slog.String("stem", s.Stem),
		slog.String("format", string(s.Variant)),
		slog.Int("lines", len(t.Lines)))
	return s, backend, nil
}

func recoveryLogFor(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + LogExt
}

func regularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, apperr.ErrNotFound)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", path)
	}
	return nil
}
