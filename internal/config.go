package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/powerwords/internal/session"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Session SessionConfig     `yaml:"session"`
	UI      UIConfig          `yaml:"ui"`
	Index   IndexConfig       `yaml:"index"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// SessionConfig controls where sessions are written and how.
type SessionConfig struct {
	Dir        string  `yaml:"dir"`
	Format     string  `yaml:"format"`
	ImageWidth float64 `yaml:"image_width"`
}

// Validate validates the session configuration.
func (c *SessionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Format, validation.Required, validation.In("text", "txt", "pdf", "document")),
		validation.Field(&c.ImageWidth, validation.Required, validation.Min(1.0)),
	)
}

// Variant returns the output variant named by Format.
func (c *SessionConfig) Variant() (session.Variant, error) {
	return session.ParseVariant(c.Format)
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	ClearScreen bool `yaml:"clear_screen"`
	Color       bool `yaml:"color"`
}

// IndexConfig holds the session index settings.
type IndexConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ResolvedPath returns Path with a leading ~ expanded to the home directory.
func (c *IndexConfig) ResolvedPath() (string, error) {
	return expandHome(c.Path)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Session: SessionConfig{
			Dir:        ".",
			Format:     string(session.Document),
			ImageWidth: 120,
		},
		UI: UIConfig{
			ClearScreen: true,
			Color:       true,
		},
		Index: IndexConfig{
			Enabled: true,
			Path:    "~/.powerwords/index.db",
		},
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
