package internal

import (
	"io"

	"github.com/starford/powerwords/internal/clock"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	resumeFile string
	format     string
	dir        string
	verbose    bool
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	clock      clock.Clock
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithResumeFile resumes the session stored at path instead of prompting
// for a new one.
func WithResumeFile(path string) Option {
	return func(a *application) {
		a.resumeFile = path
	}
}

// WithFormat overrides the configured output format.
func WithFormat(format string) Option {
	return func(a *application) {
		a.format = format
	}
}

// WithDir overrides the configured session directory.
func WithDir(dir string) Option {
	return func(a *application) {
		a.dir = dir
	}
}

// WithVerbose enables debug logging.
func WithVerbose(on bool) Option {
	return func(a *application) {
		a.verbose = on
	}
}

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// WithClock sets the clock used for stamps and headers.
func WithClock(c clock.Clock) Option {
	return func(a *application) {
		a.clock = c
	}
}
