package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	v, err := cfg.Session.Variant()
	if err != nil {
		t.Fatalf("default variant: %v", err)
	}
	if v != "pdf" {
		t.Errorf("variant = %q, want pdf", v)
	}
}

func TestSessionConfig_BadFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Session.Format = "docx"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown format should fail validation")
	}
	if !strings.Contains(err.Error(), "format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionConfig_ImageWidth(t *testing.T) {
	for _, w := range []float64{0, -5} {
		cfg := NewDefaultConfig()
		cfg.Session.ImageWidth = w
		if err := cfg.Validate(); err == nil {
			t.Errorf("image width %v should fail validation", w)
		}
	}
}

func TestIndexConfig_DisabledSkipsPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Index.Enabled = false
	cfg.Index.Path = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled index should not need a path: %v", err)
	}

	cfg.Index.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled index without path should fail")
	}
}

func TestIndexConfig_ResolvedPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := IndexConfig{Path: "~/.powerwords/index.db"}
	got, err := cfg.ResolvedPath()
	if err != nil {
		t.Fatalf("ResolvedPath: %v", err)
	}
	if want := filepath.Join(home, ".powerwords", "index.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	cfg.Path = "rel/index.db"
	if got, _ := cfg.ResolvedPath(); got != "rel/index.db" {
		t.Errorf("relative path changed: %q", got)
	}
}
