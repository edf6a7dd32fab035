// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/clock"
	"github.com/starford/powerwords/internal/command"
	"github.com/starford/powerwords/internal/index"
	"github.com/starford/powerwords/internal/session"
	"github.com/starford/powerwords/internal/shell"
	"github.com/starford/powerwords/internal/ui"
)

// Program identity shown in the banner.
const (
	Name    = "powerwords"
	Version = "v0.2"
)

// maxLineBytes bounds a single input line, pasted notes included.
const maxLineBytes = 1 << 20

// Run starts an interactive note-taking session with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()
	printer := app.printer()

	variant, err := cfg.Session.Variant()
	if err != nil {
		return apperr.Argument("--format", err)
	}
	if app.resumeFile != "" {
		// Checked before any prompt so a bad path touches nothing.
		if variant, err = session.CheckResumePath(app.resumeFile); err != nil {
			return err
		}
	}

	logger.Debug("Configuration loaded",
		slog.String("session_dir", cfg.Session.Dir),
		slog.String("format", string(variant)),
		slog.Bool("index", cfg.Index.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	idx := app.openIndex(logger)
	if idx != nil {
		defer idx.Close()
	}

	printer.Banner(Name+" "+Version, commandHelp(variant))

	sopts := session.Options{
		Dir:        cfg.Session.Dir,
		Variant:    variant,
		ImageWidth: cfg.Session.ImageWidth,
		Clock:      app.clock,
		Logger:     logger,
	}
	scanner := bufio.NewScanner(app.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		s       *session.Session
		backend session.Backend
	)
	if app.resumeFile != "" {
		s, backend, err = session.Resume(app.resumeFile, sopts)
	} else {
		s, backend, err = session.Start(session.NewPrompter(scanner, printer), sopts)
	}
	if err != nil {
		return err
	}

	mgr := session.NewManager(s, backend, idx, app.clock, logger)
	tampered, err := mgr.Register()
	if err != nil {
		logger.Warn("index: register session failed", slog.String("error", err.Error()))
	}
	if tampered {
		printer.Warning(fmt.Sprintf("%s changed outside powerwords since it was last written", s.Transcript()))
	}

	res, err := shell.New(scanner, mgr, variant.Commands(), printer, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("session %s: %w", s.Stem, err)
	}

	switch res.Kind {
	case command.Abort:
		printer.Dim("Session left at " + res.Output)
	default:
		printer.Success("Session saved to " + res.Output)
	}
	return nil
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.dir != "" {
		app.config.Session.Dir = app.dir
	}
	if app.format != "" {
		app.config.Session.Format = app.format
	}
	if app.in == nil {
		app.in = os.Stdin
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.errOut == nil {
		app.errOut = os.Stderr
	}
	if app.clock == nil {
		app.clock = clock.System{}
	}
	return app, nil
}

// logger builds the process logger. Output goes to stderr since the note
// loop owns stdout.
func (a *application) logger() *slog.Logger {
	level := a.config.App.LogLevel
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) printer() *ui.Printer {
	return ui.New(a.out, a.errOut,
		ui.WithColor(a.config.UI.Color),
		ui.WithClearScreen(a.config.UI.ClearScreen))
}

// openIndex opens the session index for note taking. The index is
// optional there, so failures are logged and nil is returned.
func (a *application) openIndex(logger *slog.Logger) index.SessionIndex {
	if !a.config.Index.Enabled {
		return nil
	}
	db, err := a.requireIndex()
	if err != nil {
		logger.Warn("index unavailable, continuing without it", slog.String("error", err.Error()))
		return nil
	}
	return db
}

func (a *application) requireIndex() (*index.DB, error) {
	if !a.config.Index.Enabled {
		return nil, fmt.Errorf("index is disabled in config")
	}
	path, err := a.config.Index.ResolvedPath()
	if err != nil {
		return nil, err
	}
	return index.Open(path)
}

func commandHelp(v session.Variant) []ui.Help {
	set := v.Commands()
	cmds := []ui.Help{{Key: command.QuitWord, Desc: "save and exit"}}
	if set.Abort {
		cmds = append(cmds, ui.Help{Key: command.AbortWord, Desc: "exit immediately"})
	}
	if set.Images {
		cmds = append(cmds, ui.Help{Key: command.ImageWord + " <path>", Desc: "insert a .jpg or .png image"})
	}
	return cmds
}
