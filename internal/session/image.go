package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/powerwords/internal/apperr"
	"github.com/starford/powerwords/internal/document"
)

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ValidateImage checks that path names an existing .jpg or .png file the
// PDF renderer can embed. Failures wrap apperr.ErrInvalidImage.
func ValidateImage(path string) error {
	err := validation.Validate(path,
		validation.Required.Error("an image path is required"),
		validation.By(hasImageExt),
		validation.By(isRegularFile),
		validation.By(isRenderable),
	)
	if err != nil {
		if path == "" {
			return fmt.Errorf("%w: %v", apperr.ErrInvalidImage, err)
		}
		return fmt.Errorf("%w: %s: %v", apperr.ErrInvalidImage, path, err)
	}
	return nil
}

func hasImageExt(value interface{}) error {
	p, _ := value.(string)
	if _, ok := imageExts[strings.ToLower(filepath.Ext(p))]; !ok {
		return errors.New("must be a .jpg or .png file")
	}
	return nil
}

func isRegularFile(value interface{}) error {
	p, _ := value.(string)
	info, err := os.Stat(p)
	if err != nil {
		return errors.New("file does not exist")
	}
	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}
	return nil
}

func isRenderable(value interface{}) error {
	p, _ := value.(string)
	if err := document.ValidateImage(p); err != nil {
		return fmt.Errorf("cannot be embedded: %v", err)
	}
	return nil
}

// imageRef returns the path recorded in the recovery log for src:
// relative to the session directory when possible.
func imageRef(dir, src string) string {
	rel, err := filepath.Rel(dir, src)
	if err != nil {
		return src
	}
	return rel
}
