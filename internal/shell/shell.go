// Package shell runs the interactive read-dispatch loop of a session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"log/slog"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/command"
	"github.com/starford/powerwords/internal/ui"
)

// Handler performs the commands the loop dispatches.
type Handler interface {
	Note(text string) error
	Image(path string) error
	Quit() (string, error)
	Abort() string
}

// Result says how the loop ended.
type Result struct {
	Kind   command.Kind // Quit or Abort
	Output string       // file holding the session
}

// Loop reads one line at a time and dispatches it.
type Loop struct {
	in       *bufio.Scanner
	handler  Handler
	commands command.Set
	printer  *ui.Printer
	logger   *slog.Logger
}

// New creates a Loop.
func New(in *bufio.Scanner, h Handler, commands command.Set, printer *ui.Printer, logger *slog.Logger) *Loop {
	return &Loop{in: in, handler: h, commands: commands, printer: printer, logger: logger}
}

// Run loops until quit, abort, end of input or ctx cancellation. End of
// input finalizes like quit. Rejected image commands are reported and the
// loop continues; any other error ends it.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	wipe := true
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if wipe {
			l.printer.Clear()
		}
		wipe = true

		if !l.in.Scan() {
			if err := l.in.Err(); err != nil {
				return Result{}, err
			}
			l.logger.Debug("shell: end of input, finalizing")
			return l.quit()
		}

		cmd := command.Parse(l.in.Text(), l.commands)
		switch cmd.Kind {
		case command.Quit:
			return l.quit()

		case command.Abort:
			return Result{Kind: command.Abort, Output: l.handler.Abort()}, nil

		case command.Image:
			if err := l.handler.Image(cmd.Path); err != nil {
				if errors.Is(err, apperr.ErrInvalidImage) || errors.Is(err, apperr.ErrUnsupported) {
					l.printer.Error(err.Error())
					wipe = false
					continue
				}
				return Result{}, err
			}

		case command.Note:
			if err := l.handler.Note(cmd.Text); err != nil {
				return Result{}, err
			}
		}
	}
}

func (l *Loop) quit() (Result, error) {
	out, err := l.handler.Quit()
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: command.Quit, Output: out}, nil
}
