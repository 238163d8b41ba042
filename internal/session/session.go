// Package session persists client credentials between runs of the
// terminal client.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	configDirName   = "ghstmail"
	sessionFileName = "session.json"
)

// Session holds the credentials for the logged-in user.
type Session struct {
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store rooted at the user config directory.
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, configDirName, sessionFileName)}, nil
}

// NewStoreAt creates a store over an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored session. A missing file returns (nil, nil).
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Logout removes the session file. Already-absent files are fine.
func (s *Store) Logout() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a session with an access token exists.
func (s *Store) IsAuthenticated() bool {
	sess, err := s.Load()
	return err == nil && sess != nil && sess.AccessToken != ""
}
