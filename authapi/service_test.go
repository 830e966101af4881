package authapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/NMHx2005/lms-frontend-sub000/authapi"
	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/notify"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/NMHx2005/lms-frontend-sub000/session/storefakes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newService(t *testing.T, handler http.Handler, store *storefakes.FakeStore, scope string) (*authapi.Service, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := apiclient.DefaultConfig()
	cfg.BaseOrigin = srv.URL
	notes := notify.NewRecorder()
	c, err := apiclient.New(cfg, store, apiclient.WithNotifier(notes), apiclient.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return authapi.New(c, scope), notes
}

func TestLogin_SavesTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jane@example.com", body["email"])
		require.Equal(t, "s3cret", body["password"])
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"accessToken":  "acc",
				"refreshToken": "ref",
				"user":         map[string]any{"id": "u-1", "role": "student"},
			},
		})
	})
	store := storefakes.NewFakeStore()
	svc, _ := newService(t, mux, store, authapi.ScopeClient)

	res, err := svc.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "acc", res.AccessToken)
	require.JSONEq(t, `{"id":"u-1","role":"student"}`, string(res.User))
	require.Equal(t, "acc", store.Value(session.KeyAccessToken))
	require.Equal(t, "ref", store.Value(session.KeyRefreshToken))
}

func TestLogin_BadCredentialsDoNotRefresh(t *testing.T) {
	refreshed := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid email or password"})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshed = true
	})
	store := storefakes.NewFakeStoreWithTokens("old", "old-ref")
	svc, notes := newService(t, mux, store, authapi.ScopeAdmin)

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.False(t, refreshed)
	require.Equal(t, "Invalid email or password", notes.Notifications()[0].Message)
	require.Equal(t, "old", store.Value(session.KeyAccessToken))
}

func TestLogin_MissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	svc, _ := newService(t, mux, storefakes.NewFakeStore(), authapi.ScopeAdmin)

	_, err := svc.Login(context.Background(), "a@b.c", "x")
	require.ErrorIs(t, err, apperrors.ErrNoAccessToken)
}

func TestMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/auth/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"user": map[string]any{"email": "jane@example.com"}}})
	})
	svc, _ := newService(t, mux, storefakes.NewFakeStoreWithTokens("acc", "ref"), authapi.ScopeClient)

	user, err := svc.Me(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"jane@example.com"}`, string(user))
}

func TestValidateToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/validate-token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true})
	})

	good, _ := newService(t, mux, storefakes.NewFakeStoreWithTokens("good", "r"), authapi.ScopeAdmin)
	ok, err := good.ValidateToken(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	bad, notes := newService(t, mux, storefakes.NewFakeStoreWithTokens("bad", "r"), authapi.ScopeAdmin)
	ok, err = bad.ValidateToken(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, notes.Len())
}

func TestLogout_AlwaysClears(t *testing.T) {
	tests := []struct {
		name   string
		status int
		fails  bool
	}{
		{"ok", http.StatusOK, false},
		{"expired session", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRefresh string
			mux := http.NewServeMux()
			mux.HandleFunc("/api/client/auth/logout", func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				gotRefresh = body["refreshToken"]
				writeJSON(w, tt.status, map[string]any{"message": "bye"})
			})
			mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "revoked"})
			})
			store := storefakes.NewFakeStoreWithTokens("acc", "ref")
			svc, notes := newService(t, mux, store, authapi.ScopeClient)

			err := svc.Logout(context.Background())
			if tt.fails {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, "ref", gotRefresh)
			require.False(t, store.Has(session.KeyAccessToken))
			require.False(t, store.Has(session.KeyRefreshToken))
			require.Zero(t, notes.Len())
		})
	}
}
