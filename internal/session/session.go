// Package session persists the logged-in user between runs. The storage is
// a single JSON entry on disk, the durable equivalent of the browser
// localStorage slot the portal stores its current user in.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avelasler/newsdesk/internal/news"
)

var errMissingPath = errors.New("session: storage path is required")

// Store reads and writes the persisted current user.
type Store struct {
	path string
}

// NewStore constructs a file-backed session store.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errMissingPath
	}
	return &Store{path: path}, nil
}

// Load returns the persisted user, or nil when no session exists. A missing
// or unreadable file is a normal cold start, never an error the caller has
// to handle.
func (s *Store) Load() *news.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var user news.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	if user.ID.IsZero() {
		return nil
	}
	return &user
}

// Save persists the user, creating the parent directory when needed.
func (s *Store) Save(user news.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create storage directory: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write storage: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is a
// no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	return nil
}
