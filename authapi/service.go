// Package authapi is the authentication collaborator of the API client: it
// starts and ends sessions by writing to the same store the client reads.
package authapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/rs/zerolog/log"
)

const (
	// ScopeAdmin addresses the admin console endpoints.
	ScopeAdmin = ""
	// ScopeClient addresses the learner portal endpoints.
	ScopeClient = "/client"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what a successful login returned. The tokens have already
// been saved to the store.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         json.RawMessage
}

type Service struct {
	client *apiclient.Client
	store  session.Store
	scope  string
}

// New binds a service to the client's session store.
func New(client *apiclient.Client, scope string) *Service {
	return &Service{client: client, store: client.Store(), scope: scope}
}

func (s *Service) path(endpoint string) string {
	return s.scope + endpoint
}

// Login exchanges credentials for a session. In cookie mode the server may
// answer without tokens; otherwise a missing access token is an error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := credentials{Email: email, Password: password}
	resp, err := s.client.Send(ctx, apiclient.Post(s.path("/auth/login")).WithJSON(body))
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken := apiclient.ParseTokenPair(resp.Body)
	if accessToken == "" && !s.client.Config().WithCredentials {
		return nil, apperrors.Wrapf(apperrors.ErrNoAccessToken, "login response")
	}

	s.client.ResetAuthorization()
	if accessToken != "" {
		if err := session.SaveTokens(ctx, s.store, accessToken, refreshToken); err != nil {
			return nil, apperrors.Wrapf(err, "save session")
		}
	}
	log.Info().Str("email", email).Bool("refresh_token", refreshToken != "").Msg("logged in")

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userOf(resp.Body),
	}, nil
}

// Me returns the signed-in user's profile as sent by the server.
func (s *Service) Me(ctx context.Context) (json.RawMessage, error) {
	resp, err := s.client.Send(ctx, apiclient.Get(s.path("/auth/me")))
	if err != nil {
		return nil, err
	}
	return userOf(resp.Body), nil
}

// ValidateToken asks the server whether the stored access token is still
// accepted. A 401 is a negative answer, not an error.
func (s *Service) ValidateToken(ctx context.Context) (bool, error) {
	_, err := s.client.Send(ctx, apiclient.Get(s.path("/auth/validate-token")).Quiet())
	if apiclient.IsUnauthorized(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Logout tells the server to end the session and clears the local one
// whatever the server says. Failures are not notified.
func (s *Service) Logout(ctx context.Context) error {
	req := apiclient.Post(s.path("/auth/logout")).Quiet()
	if refreshToken, err := session.RefreshToken(ctx, s.store); err == nil && refreshToken != "" {
		req = req.WithJSON(map[string]string{"refreshToken": refreshToken})
	}
	_, sendErr := s.client.Send(ctx, req)

	s.client.ResetAuthorization()
	clearErr := session.ClearTokens(context.WithoutCancel(ctx), s.store)
	if clearErr != nil {
		clearErr = apperrors.Wrapf(clearErr, "clear session")
	}

	// An already expired session is logged out either way
	if apiclient.IsUnauthorized(sendErr) || apiclient.StatusCode(sendErr) == http.StatusNotFound {
		sendErr = nil
	}
	return apperrors.Join(sendErr, clearErr)
}

// userOf picks the user object out of {"data":{"user":..}}, {"user":..},
// {"data":..} or a bare object, in that order.
func userOf(body []byte) json.RawMessage {
	var envelope struct {
		User json.RawMessage `json:"user"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if len(envelope.Data) > 0 {
		var inner struct {
			User json.RawMessage `json:"user"`
		}
		if json.Unmarshal(envelope.Data, &inner) == nil && len(inner.User) > 0 {
			return inner.User
		}
	}
	if len(envelope.User) > 0 {
		return envelope.User
	}
	if len(envelope.Data) > 0 {
		return envelope.Data
	}
	return json.RawMessage(body)
}
