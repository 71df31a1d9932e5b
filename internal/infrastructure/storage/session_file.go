// Package storage persists the session blob to a single JSON file, the
// client's equivalent of browser localStorage. Its presence or absence is
// the only durable state this application owns.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
)

// FileStore reads and writes the session file.
type FileStore struct {
	path string
}

var _ ports.SessionStorage = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "civicctl", "session.json"), nil
}

// Load returns (nil, nil) when no session file exists. A file that cannot
// be parsed, or parses without a token, returns an error; callers treat it
// as "no session".
func (f *FileStore) Load() (*domain.Session, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if sess.AccessToken == "" {
		return nil, fmt.Errorf("session file missing access token")
	}
	return &sess, nil
}

func (f *FileStore) Save(s *domain.Session) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// 0600: the blob carries the bearer token.
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
