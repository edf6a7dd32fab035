package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/document"
	"github.com/starford/powerwords/internal/follow"
	"github.com/starford/powerwords/internal/session"
	"github.com/starford/powerwords/internal/storage"
)

const listLimit = 50

// RunSessions prints the indexed sessions, most recently written first.
func RunSessions(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	printer := app.printer()

	db, err := app.requireIndex()
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	defer db.Close()

	rows, err := db.ListSessions(listLimit)
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if len(rows) == 0 {
		printer.Dim("No sessions recorded yet.")
		return nil
	}
	for _, r := range rows {
		printer.Println(fmt.Sprintf("Session %d: %s  [%s, %d notes, %s]",
			r.Number, r.Title, r.Format, r.Notes, r.UpdatedAt.Local().Format("2006-01-02 15:04")))
		printer.Dim("  " + r.Path)
	}
	return nil
}

// RunSession prints the index entry for one session file. A .pdf path is
// looked up through its recovery log.
func RunSession(_ context.Context, path string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	printer := app.printer()

	abs, err := filepath.Abs(path)
	if err != nil {
		return apperr.Argument("PATH", err)
	}
	if strings.EqualFold(filepath.Ext(abs), session.DocumentExt) {
		abs = strings.TrimSuffix(abs, filepath.Ext(abs)) + session.LogExt
	}

	db, err := app.requireIndex()
	if err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	defer db.Close()

	r, err := db.GetSession(abs)
	if err != nil {
		return fmt.Errorf("sessions: %s: %w", abs, err)
	}
	printer.Println(fmt.Sprintf("Session %d: %s", r.Number, r.Title))
	printer.Println(fmt.Sprintf("  format:   %s", r.Format))
	printer.Println(fmt.Sprintf("  notes:    %d", r.Notes))
	printer.Println(fmt.Sprintf("  created:  %s", r.CreatedAt.Local().Format("2006-01-02 15:04")))
	printer.Println(fmt.Sprintf("  updated:  %s", r.UpdatedAt.Local().Format("2006-01-02 15:04")))
	printer.Dim("  " + r.Path)
	return nil
}

// RunSearch prints the indexed notes containing term.
func RunSearch(_ context.Context, term string, opts ...Option) error {
	if strings.TrimSpace(term) == "" {
		return apperr.Argument("TERM", errors.New("search term is required"))
	}
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	printer := app.printer()

	db, err := app.requireIndex()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer db.Close()

	results, err := db.Search(term, listLimit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		printer.Dim(fmt.Sprintf("No notes match %q.", term))
		return nil
	}
	for _, r := range results {
		line := r.Body
		if r.Stamp != "" {
			line = r.Stamp + " " + line
		}
		printer.Println(fmt.Sprintf("%s: %s", r.Title, line))
		printer.Dim("  " + r.Path)
	}
	return nil
}

// RunWatch follows a session transcript until interrupted.
func RunWatch(ctx context.Context, path string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	printer := app.printer()

	if _, err := os.Stat(path); err != nil {
		return apperr.Argument("PATH", fmt.Errorf("%s: %w", path, apperr.ErrNotFound))
	}

	g, gCtx := errgroup.WithContext(ctx)
	followCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return follow.Follow(followCtx, path, app.out, logger, func(kind, p string) {
			switch kind {
			case follow.EventRemoved:
				printer.Warning(p + " was removed")
			case follow.EventTruncated:
				logger.Debug("watch: file rewritten", slog.String("path", p))
			}
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-followCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// RunRender regenerates <stem>.pdf beside a recovery log.
func RunRender(_ context.Context, logPath string, opts ...Option) error {
	if !strings.EqualFold(filepath.Ext(logPath), session.LogExt) {
		return apperr.Argument("PATH", fmt.Errorf("%s: %w: expected a %s file", logPath, apperr.ErrUnsupportedFormat, session.LogExt))
	}
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()
	printer := app.printer()

	store, err := storage.NewFS(filepath.Dir(logPath))
	if err != nil {
		return apperr.Argument("PATH", err)
	}
	base := filepath.Base(logPath)
	if !store.Exists(base) {
		return apperr.Argument("PATH", fmt.Errorf("%s: %w", logPath, apperr.ErrNotFound))
	}
	data, err := store.Read(base)
	if err != nil {
		return err
	}

	doc, err := document.Replay(data, store.Root(), logger,
		document.WithImageWidth(app.config.Session.ImageWidth))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Finalize(&buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	name := strings.TrimSuffix(base, filepath.Ext(base)) + session.DocumentExt
	if err := store.Create(name, buf.Bytes()); err != nil {
		return err
	}
	out, err := store.Abs(name)
	if err != nil {
		return err
	}
	logger.Info("render: written", slog.String("output", out), slog.Int("lines", len(doc.Lines())))
	printer.Success("Rendered " + out)
	return nil
}
