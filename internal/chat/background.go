package chat

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// maxBackgroundBytes caps the stored background data URI at write time.
const maxBackgroundBytes = 2 * 1024 * 1024

// SetBackground persists a background-image data URI. Oversized writes are
// rejected with a localized error before anything touches disk.
func (s *Store) SetBackground(dataURI string) error {
	if len(dataURI) > maxBackgroundBytes {
		return errors.New(s.loc.BackgroundTooBig)
	}
	return os.WriteFile(s.backgroundPath(), []byte(dataURI), 0o644)
}

// Background returns the stored data URI, or "" when none is set.
func (s *Store) Background() string {
	b, err := os.ReadFile(s.backgroundPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *Store) ClearBackground() error {
	err := os.Remove(s.backgroundPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// EncodeBackgroundFile turns an image file into a data URI suitable for
// SetBackground. The mime type comes from the file extension.
func EncodeBackgroundFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mtype := mime.TypeByExtension(filepath.Ext(path))
	if mtype == "" {
		mtype = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mtype, base64.StdEncoding.EncodeToString(b)), nil
}
