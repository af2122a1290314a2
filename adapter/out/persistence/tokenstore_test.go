package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileTokenStore(path)
	ctx := context.Background()

	token := &oauth2.Token{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
		Expiry:       time.Date(2025, 9, 19, 12, 0, 0, 0, time.UTC),
	}

	if err := store.Save(ctx, token); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded.AccessToken != token.AccessToken {
		t.Errorf("expected access token %q, got %q", token.AccessToken, loaded.AccessToken)
	}
	if loaded.RefreshToken != token.RefreshToken {
		t.Errorf("expected refresh token %q, got %q", token.RefreshToken, loaded.RefreshToken)
	}
	if !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("expected expiry %v, got %v", token.Expiry, loaded.Expiry)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected stat error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %o", perm)
	}
}

func TestFileTokenStoreLoadMissing(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for missing token file")
	}
}

func TestFileTokenStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	store := NewFileTokenStore(path)
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt token file")
	}
}
