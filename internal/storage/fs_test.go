package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempDir(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestCreateAndRead(t *testing.T) {
	s := tempDir(t)
	content := []byte("Session 1: Algebra - 10-18-2026")
	if err := s.Create("algebra.txt", content); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Read("algebra.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestCreateTruncatesExisting(t *testing.T) {
	s := tempDir(t)
	_ = s.Create("a.txt", []byte("old content that is long"))
	if err := s.Create("a.txt", []byte("new")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, _ := s.Read("a.txt")
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".powerwords-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestAppend(t *testing.T) {
	s := tempDir(t)
	_ = s.Create("log.txt", []byte("header"))
	if err := s.Append("log.txt", []byte("\n\nfirst")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("log.txt", []byte("\nsecond")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, _ := s.Read("log.txt")
	if string(got) != "header\n\nfirst\nsecond" {
		t.Errorf("content = %q", got)
	}
}

func TestAppendCreatesMissing(t *testing.T) {
	s := tempDir(t)
	if err := s.Append("fresh.log", []byte("x")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !s.Exists("fresh.log") {
		t.Error("file should exist after append")
	}
}

func TestExists(t *testing.T) {
	s := tempDir(t)
	_ = s.Create("here.txt", []byte("x"))
	_ = os.Mkdir(filepath.Join(s.root, "sub"), 0o755)

	if !s.Exists("here.txt") {
		t.Error("here.txt should exist")
	}
	if s.Exists("missing.txt") {
		t.Error("missing.txt should not exist")
	}
	if s.Exists("sub") {
		t.Error("directories are not files")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDir(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.txt",
		"/etc/shadow",
		"",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Create(p, []byte("x")); err == nil {
			t.Errorf("expected error for create of %q", p)
		}
		if err := s.Append(p, []byte("x")); err == nil {
			t.Errorf("expected error for append to %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "powerwords-test-*")
	_ = f.Close()
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
