// Package session persists the session token and derives the logged-in user from it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"taskpad/internal/service"
)

// record is the on-disk form of a session.
type record struct {
	Token string `json:"token"`
}

// Store holds the session token and persists it to a file.
// Store implements oauth2.TokenSource, so an HTTP transport can read the
// current token on every request.
type Store struct {
	path string

	mu    sync.RWMutex
	token string
}

var _ oauth2.TokenSource = (*Store)(nil)

// NewStore returns an empty store persisting to path. Call Load to read it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the token from disk. A missing file leaves the store empty.
// An unreadable or corrupt file is reported and also leaves it empty.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.set("")
			return nil
		}
		s.set("")
		return fmt.Errorf("reading session file %s: %w", s.path, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.set("")
		return fmt.Errorf("parsing session file %s: %w", s.path, err)
	}
	s.set(rec.Token)
	return nil
}

// Save persists token and makes it current.
// The directory is created with mode 0700 and the file written with 0600.
func (s *Store) Save(token string) error {
	if token == "" {
		return errors.New("refusing to save an empty session token")
	}
	data, err := json.MarshalIndent(record{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", dir, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	s.set(token)
	return nil
}

// Clear forgets the token and removes the session file.
func (s *Store) Clear() error {
	s.set("")
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}

// Current returns the token, or "" when logged out.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a token is held.
func (s *Store) HasToken() bool {
	return s.Current() != ""
}

// Token implements oauth2.TokenSource.
// Returns service.ErrNotLoggedIn when no token is held.
func (s *Store) Token() (*oauth2.Token, error) {
	token := s.Current()
	if token == "" {
		return nil, service.ErrNotLoggedIn
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

func (s *Store) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
