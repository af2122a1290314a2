package out

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenStore is the injected credential provider for the Google APIs.
// The core never touches credential file paths directly.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}
