package session

import (
	"context"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/token"
	"golang.org/x/oauth2"
)

type storeTokenSource struct {
	ctx   context.Context
	store Store
}

// TokenSource exposes the stored session as an oauth2.TokenSource so code
// built on golang.org/x/oauth2 can reuse the CLI's login. It never refreshes:
// refreshing is the API client's job.
func TokenSource(ctx context.Context, s Store) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: s}
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	access, err := AccessToken(ts.ctx, ts.store)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, apperrors.ErrNoAccessToken
	}
	refresh, err := RefreshToken(ts.ctx, ts.store)
	if err != nil {
		return nil, err
	}

	t := &oauth2.Token{
		AccessToken:  access,
		TokenType:    "Bearer",
		RefreshToken: refresh,
	}
	if claims, err := token.Inspect(access); err == nil {
		t.Expiry = claims.ExpiresAt
	}
	return t, nil
}
