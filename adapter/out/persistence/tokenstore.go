// Package persistence provides credential storage adapters.
package persistence

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"inboxcal/core/port/out"
)

// FileTokenStore keeps an OAuth token as a JSON file on disk. It is the
// only place in the system that knows about credential file paths.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store backed by the given path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads and decodes the stored token.
func (s *FileTokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token file %s: %w", s.path, err)
	}
	return &token, nil
}

// Save encodes and writes the token with owner-only permissions.
func (s *FileTokenStore) Save(ctx context.Context, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Ensure interface compliance
var _ out.TokenStore = (*FileTokenStore)(nil)
