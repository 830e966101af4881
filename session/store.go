package session

import (
	"context"
	"fmt"
)

// Key names one of the persisted session slots.
type Key string

const (
	KeyAccessToken  Key = "accessToken"
	KeyRefreshToken Key = "refreshToken"
)

// Keys lists every slot a Store is expected to hold.
var Keys = []Key{KeyAccessToken, KeyRefreshToken}

// Store defines the persistence of session credentials.
// Implementations must be safe for concurrent use: every in-flight request
// may read the access token while a failing one writes a refreshed token.
type Store interface {
	// Get returns the value stored under key, or "" when nothing is stored
	Get(ctx context.Context, key Key) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key Key, value string) error

	// Clear removes the given keys; clearing a missing key is not an error
	Clear(ctx context.Context, keys ...Key) error
}

func AccessToken(ctx context.Context, s Store) (string, error) {
	return s.Get(ctx, KeyAccessToken)
}

func RefreshToken(ctx context.Context, s Store) (string, error) {
	return s.Get(ctx, KeyRefreshToken)
}

// SaveTokens stores a freshly issued token pair. An empty refresh token
// leaves the stored one untouched, since refresh responses do not always
// rotate it.
func SaveTokens(ctx context.Context, s Store, accessToken, refreshToken string) error {
	if err := s.Set(ctx, KeyAccessToken, accessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if refreshToken == "" {
		return nil
	}
	if err := s.Set(ctx, KeyRefreshToken, refreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ClearTokens removes both credentials.
func ClearTokens(ctx context.Context, s Store) error {
	return s.Clear(ctx, Keys...)
}
