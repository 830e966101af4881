package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/NMHx2005/lms-frontend-sub000/token"
	"github.com/google/uuid"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// tokenPair accepts the camelCase fields the LMS backend sends and the
// snake_case ones of a standard OAuth2 token response.
type tokenPair struct {
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	OAuthAccessToken  string `json:"access_token"`
	OAuthRefreshToken string `json:"refresh_token"`
}

func (p tokenPair) access() string {
	if p.AccessToken != "" {
		return p.AccessToken
	}
	return p.OAuthAccessToken
}

func (p tokenPair) refresh() string {
	if p.RefreshToken != "" {
		return p.RefreshToken
	}
	return p.OAuthRefreshToken
}

// ParseTokenPair reads an access token (and an optional rotated refresh
// token) from either {"data":{"accessToken":..}} or {"accessToken":..}.
// The enveloped shape wins when both are present.
func ParseTokenPair(body []byte) (accessToken, refreshToken string) {
	var envelope struct {
		tokenPair
		Data *tokenPair `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", ""
	}
	if envelope.Data != nil && envelope.Data.access() != "" {
		return envelope.Data.access(), envelope.Data.refresh()
	}
	return envelope.access(), envelope.refresh()
}

// refresh renews the session and returns the Authorization value for the
// retried request ("" in cookie mode). apperrors.ErrNoRefreshToken means no
// refresh was attempted.
func (c *Client) refresh(ctx context.Context) (string, error) {
	if c.cfg.WithCredentials {
		_, err := c.anonymousPost(ctx, c.cfg.RefreshPath, nil)
		return "", err
	}

	refreshToken, err := session.RefreshToken(ctx, c.store)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if refreshToken == "" {
		return "", apperrors.ErrNoRefreshToken
	}

	accessToken, err := c.exchange(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return "Bearer " + accessToken, nil
}

// exchange trades the refresh token for a new access token. With
// CoalesceRefresh, concurrent callers share the in-flight exchange.
func (c *Client) exchange(ctx context.Context, refreshToken string) (string, error) {
	if !c.cfg.CoalesceRefresh {
		return c.exchangeRefreshToken(ctx, refreshToken)
	}

	// The shared exchange must not die with whichever caller started it
	ch := c.refreshGroup.DoChan(c.cfg.RefreshPath, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()
		return c.exchangeRefreshToken(sharedCtx, refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Msg("joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.anonymousPost(ctx, c.cfg.RefreshPath, JSON(refreshRequest{RefreshToken: refreshToken}))
	if err != nil {
		return "", err
	}

	accessToken, rotated := ParseTokenPair(resp.Body)
	if accessToken == "" {
		return "", &Error{
			Kind:       KindResponse,
			Method:     http.MethodPost,
			Path:       c.cfg.RefreshPath,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Message:    FallbackMessage,
			RequestID:  resp.RequestID,
			Err:        apperrors.ErrMissingRefreshToken,
		}
	}

	if err := session.SaveTokens(ctx, c.store, accessToken, rotated); err != nil {
		return "", err
	}
	c.setDefaultAuthorization("Bearer " + accessToken)

	evt := c.logger.Info().Bool("rotated", rotated != "")
	if claims, err := token.Inspect(accessToken); err == nil && !claims.ExpiresAt.IsZero() {
		evt = evt.Time("expires_at", claims.ExpiresAt)
	}
	evt.Msg("access token refreshed")
	return accessToken, nil
}

// anonymousPost is a single round trip without stored credentials, refresh
// handling or notification.
func (c *Client) anonymousPost(ctx context.Context, path string, body Body) (*Response, error) {
	var encoded *encodedBody
	if body != nil {
		var err error
		if encoded, err = body.encode(); err != nil {
			return nil, newRequestError(http.MethodPost, path, err)
		}
	}
	a := newAttempt(Post(path), encoded, uuid.New().String())
	a.anonymous = true
	return c.roundTrip(ctx, a)
}
