package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by Load when no credentials have been persisted.
var ErrNoToken = errors.New("no stored credentials")

// CredentialsStore persists the session token between runs. It is the
// process-local equivalent of the browser's local storage: a single opaque
// bearer token, plus a refresh token slot that the sign-in flow never fills.
type CredentialsStore struct {
	path string
}

func NewCredentialsStore(path string) *CredentialsStore {
	return &CredentialsStore{path: path}
}

// Load reads the persisted token. ErrNoToken means the user has never signed
// in (or has signed out) on this machine.
func (s *CredentialsStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &token, nil
}

// Save persists the token, creating the parent directory when needed.
func (s *CredentialsStore) Save(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return errors.New("refusing to persist an empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an already empty store is a
// no-op, so callers can clear unconditionally on sign-out.
func (s *CredentialsStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	log.Debugf("cleared credentials at %s", s.path)
	return nil
}
