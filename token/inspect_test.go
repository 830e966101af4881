package token_test

import (
	"testing"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/token"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return now }
	defer func() { token.NowTimeFunc = time.Now }()

	raw := signed(t, jwtlib.MapClaims{
		"sub":  "user-1",
		"iss":  "lms",
		"role": "admin",
		"iat":  now.Add(-time.Minute).Unix(),
		"exp":  now.Add(14 * time.Minute).Unix(),
	})

	claims, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "lms", claims.Issuer)
	require.Equal(t, "admin", claims.Role)
	require.False(t, claims.Expired())
	require.Equal(t, 14*time.Minute, claims.ExpiresIn())

	t.Run("bearer prefix is tolerated", func(t *testing.T) {
		c, err := token.Inspect("Bearer " + raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", c.Subject)
	})
}

func TestInspectExpired(t *testing.T) {
	raw := signed(t, jwtlib.MapClaims{
		"userId": "user-2",
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := token.Inspect(raw)
	require.NoError(t, err)
	require.Equal(t, "user-2", claims.Subject)
	require.True(t, claims.Expired())
	require.Zero(t, claims.ExpiresIn())
}

func TestInspectWithoutExpiry(t *testing.T) {
	claims, err := token.Inspect(signed(t, jwtlib.MapClaims{"id": "user-3"}))
	require.NoError(t, err)
	require.Equal(t, "user-3", claims.Subject)
	require.True(t, claims.ExpiresAt.IsZero())
	require.False(t, claims.Expired())
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := token.Inspect("")
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	_, err = token.Inspect("opaque-token-value")
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}
