package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session persists the bearer token between CLI runs.
type Session struct {
	mu    sync.Mutex
	path  string
	token string
}

// DefaultSessionPath returns $XDG_CONFIG_HOME/contactbook/token, falling back
// to the OS user config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "contactbook", "token"), nil
}

// OpenSession loads the token stored at path. A missing file is an empty session.
func OpenSession(path string) (*Session, error) {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

// Token returns the stored token or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Authenticated reports whether a token is stored.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Save stores token in memory and on disk.
func (s *Session) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
		if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
	}
	s.token = token
	return nil
}

// Clear forgets the token.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
