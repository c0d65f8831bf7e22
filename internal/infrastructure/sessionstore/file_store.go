// Package sessionstore provides the persistence backends for the
// remembered login session: a JSON file under the user config directory
// and an optional Redis-backed store.
package sessionstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"smart-attendance/internal/domain"
)

const sessionFileName = "smart_attendance_auth.json"

type FileStore struct {
	path string
}

// DefaultSessionPath places the session file under the user config
// directory, falling back to the working directory when none resolves.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return sessionFileName
	}
	return filepath.Join(dir, "smart-attendance", sessionFileName)
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultSessionPath()
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load() (domain.StoredSession, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StoredSession{}, domain.ErrNotFound
		}
		return domain.StoredSession{}, err
	}
	var session domain.StoredSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.StoredSession{}, err
	}
	return session, nil
}

func (s *FileStore) Save(session domain.StoredSession) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
