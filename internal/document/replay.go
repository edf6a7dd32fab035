package document

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/powerwords/internal/parser"
)

// Replay builds a fresh Building document from a recovery log. The first
// log line becomes the title; image markers are resolved against baseDir
// and skipped when the file is gone or unreadable.
func Replay(data []byte, baseDir string, logger *slog.Logger, opts ...Option) (*Document, error) {
	t := parser.Parse(data)
	d := New(t.Title, opts...)

	for _, l := range t.Lines {
		switch l.Kind {
		case parser.KindBlank:
			d.line("")
		case parser.KindText:
			d.line(l.Text)
		case parser.KindImage:
			src := ResolveImage(baseDir, l.Path)
			if _, err := os.Stat(src); err != nil {
				logger.Debug("replay: image missing, skipped", slog.String("path", l.Path))
				continue
			}
			if err := ValidateImage(src); err != nil {
				logger.Warn("replay: image unreadable, skipped",
					slog.String("path", l.Path),
					slog.String("error", err.Error()))
				continue
			}
			d.image(src, l.Path)
		}
	}

	if err := d.err(); err != nil {
		return nil, err
	}
	return d, nil
}

// ResolveImage returns ref as an absolute path, treating relative
// references as relative to baseDir.
func ResolveImage(baseDir, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(baseDir, ref)
}
