package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/testutil"
)

var day = time.Date(2026, time.October, 18, 9, 15, 5, 0, time.Local)

type harness struct {
	dir    string
	cfg    *Config
	clock  *testutil.Clock
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Session.Dir = dir
	cfg.Index.Path = filepath.Join(dir, "index.db")
	cfg.UI.Color = false
	return &harness{dir: dir, cfg: cfg, clock: testutil.NewClock(day)}
}

func (h *harness) opts(input string, extra ...Option) []Option {
	return append([]Option{
		WithConfig(h.cfg),
		WithIO(strings.NewReader(input), &h.out, &h.errOut),
		WithClock(h.clock),
	}, extra...)
}

func TestRun_TextSession(t *testing.T) {
	h := newHarness(t)
	input := "Algebra Review\n3\ndefine variable\nsolve for x\nimage graph.png\nquit\n"

	require.NoError(t, Run(context.Background(), h.opts(input, WithFormat("text"))...))

	got, err := os.ReadFile(filepath.Join(h.dir, "algebra_review.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"Session 3: Algebra Review - 10-18-2026\n\n09:15 AM define variable\nsolve for x\nimage graph.png",
		string(got))
	assert.Contains(t, h.out.String(), Name+" "+Version)
	assert.Contains(t, h.out.String(), "Session saved to")
}

func TestRun_LongLineIsKept(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("a", 70*1024)
	input := "Algebra Review\n3\nshort\n" + long + "\nquit\n"

	require.NoError(t, Run(context.Background(), h.opts(input)...))

	data, err := os.ReadFile(filepath.Join(h.dir, "algebra_review.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	log, err := os.ReadFile(filepath.Join(h.dir, "algebra_review.log"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(log), "09:15 AM short\n"+long))
}

func TestRun_AbortLeavesTextFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, Run(context.Background(), h.opts("Quick\n1\nonly\n-q\n", WithFormat("text"))...))

	got, err := os.ReadFile(filepath.Join(h.dir, "quick.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(got), "09:15 AM only"))
	assert.Contains(t, h.out.String(), "Session left at")
}

func TestRun_DocumentSessionAndResume(t *testing.T) {
	h := newHarness(t)
	input := "Algebra Review\n3\ndefine variable\nimage missing.png\nsolve for x\n"

	// End of input finalizes like quit.
	require.NoError(t, Run(context.Background(), h.opts(input)...))
	assert.Contains(t, h.errOut.String(), apperr.ErrInvalidImage.Error())

	pdf := filepath.Join(h.dir, "algebra_review.pdf")
	data, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	h.clock.Advance(2 * time.Hour)
	require.NoError(t, Run(context.Background(), h.opts("after lunch\nquit\n", WithResumeFile(pdf))...))

	log, err := os.ReadFile(filepath.Join(h.dir, "algebra_review.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"Session 3: Algebra Review - 10-18-2026\n\n09:15 AM define variable\nsolve for x\n\n11:15 AM after lunch",
		string(log))
}

func TestRun_ResumeArgumentErrors(t *testing.T) {
	h := newHarness(t)
	pdfOnly := filepath.Join(h.dir, "orphan.pdf")
	require.NoError(t, os.WriteFile(pdfOnly, []byte("%PDF-1.3"), 0o644))

	for _, path := range []string{
		filepath.Join(h.dir, "missing.txt"),
		filepath.Join(h.dir, "notes.docx"),
		pdfOnly,
	} {
		h.out.Reset()
		err := Run(context.Background(), h.opts("", WithResumeFile(path))...)
		require.Error(t, err, path)
		assert.True(t, apperr.IsArgument(err), path)
		assert.Empty(t, h.out.String(), "nothing is shown before the check")
	}

	_, err := os.Stat(filepath.Join(h.dir, "index.db"))
	assert.True(t, os.IsNotExist(err), "index must not be opened")
}

func TestRun_UnknownFormat(t *testing.T) {
	h := newHarness(t)
	err := Run(context.Background(), h.opts("", WithFormat("docx"))...)
	require.Error(t, err)
	assert.True(t, apperr.IsArgument(err))
	assert.ErrorIs(t, err, apperr.ErrUnsupportedFormat)
}

func TestRun_RequiresConfig(t *testing.T) {
	require.Error(t, Run(context.Background()))
}

func TestRunSessionsAndSearch(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, Run(context.Background(), h.opts("Algebra Review\n3\ndefine variable\nquit\n", WithFormat("text"))...))

	h.out.Reset()
	require.NoError(t, RunSessions(context.Background(), h.opts("")...))
	assert.Contains(t, h.out.String(), "Session 3: Algebra Review")
	assert.Contains(t, h.out.String(), "1 notes")

	h.out.Reset()
	require.NoError(t, RunSearch(context.Background(), "variable", h.opts("")...))
	assert.Contains(t, h.out.String(), "Algebra Review: 09:15 AM define variable")

	h.out.Reset()
	require.NoError(t, RunSearch(context.Background(), "calculus", h.opts("")...))
	assert.Contains(t, h.out.String(), "No notes match")

	err := RunSearch(context.Background(), "  ", h.opts("")...)
	assert.True(t, apperr.IsArgument(err))
}

func TestRunSession_ShowsOne(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, Run(context.Background(), h.opts("Algebra Review\n3\ndefine variable\nsolve for x\n")...))

	h.out.Reset()
	pdf := filepath.Join(h.dir, "algebra_review.pdf")
	require.NoError(t, RunSession(context.Background(), pdf, h.opts("")...))
	assert.Contains(t, h.out.String(), "Session 3: Algebra Review")
	assert.Contains(t, h.out.String(), "notes:    2")
	assert.Contains(t, h.out.String(), filepath.Join(h.dir, "algebra_review.log"))

	err := RunSession(context.Background(), filepath.Join(h.dir, "other.txt"), h.opts("")...)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRunSessions_IndexDisabled(t *testing.T) {
	h := newHarness(t)
	h.cfg.Index.Enabled = false
	require.Error(t, RunSessions(context.Background(), h.opts("")...))
}

func TestRunRender(t *testing.T) {
	h := newHarness(t)
	logPath := filepath.Join(h.dir, "weekly_sync.log")
	require.NoError(t, os.WriteFile(logPath,
		[]byte("Session 1: Weekly Sync - 10-18-2026\n\n09:15 AM agenda\n\n!image gone.png\nwrap up"), 0o644))

	require.NoError(t, RunRender(context.Background(), logPath, h.opts("")...))

	data, err := os.ReadFile(filepath.Join(h.dir, "weekly_sync.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Contains(t, h.out.String(), "Rendered")

	err = RunRender(context.Background(), filepath.Join(h.dir, "weekly_sync.txt"), h.opts("")...)
	assert.True(t, apperr.IsArgument(err))
	err = RunRender(context.Background(), filepath.Join(h.dir, "nope.log"), h.opts("")...)
	assert.True(t, apperr.IsArgument(err))
}

func TestRunWatch(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "live.txt")
	require.NoError(t, os.WriteFile(path, []byte("Session 1: Live - 10-18-2026"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, RunWatch(ctx, path, h.opts("")...))
	assert.Equal(t, "Session 1: Live - 10-18-2026", h.out.String())

	err := RunWatch(context.Background(), filepath.Join(h.dir, "missing.txt"), h.opts("")...)
	assert.True(t, apperr.IsArgument(err))
}
