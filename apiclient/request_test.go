package apiclient_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/stretchr/testify/require"
)

func TestRequest_ModifiersCopy(t *testing.T) {
	base := apiclient.Get("/client/courses").WithQuery("page", "1")
	next := base.WithQuery("limit", "20").WithHeader("X-Locale", "vi").Quiet()

	require.Equal(t, url.Values{"page": {"1"}}, base.Query)
	require.Nil(t, base.Header)
	require.False(t, base.SuppressErrorNotification)

	require.Equal(t, "1", next.Query.Get("page"))
	require.Equal(t, "20", next.Query.Get("limit"))
	require.Equal(t, "vi", next.Header.Get("X-Locale"))
	require.True(t, next.SuppressErrorNotification)
	require.Equal(t, http.MethodGet, next.Method)
}

func TestRequest_Constructors(t *testing.T) {
	require.Equal(t, http.MethodPost, apiclient.Post("/x").Method)
	require.Equal(t, http.MethodPut, apiclient.Put("/x").Method)
	require.Equal(t, http.MethodPatch, apiclient.Patch("/x").Method)
	require.Equal(t, http.MethodDelete, apiclient.Delete("/x").Method)

	req := apiclient.Get("/search").WithQueryValues(url.Values{"q": {"go", "rust"}})
	require.Equal(t, []string{"go", "rust"}, req.Query["q"])
}

func TestIsAuthEndpoint(t *testing.T) {
	for path, want := range map[string]bool{
		"/auth/login":                 true,
		"/client/auth/login":          true,
		"/auth/register":              true,
		"/auth/refresh":               true,
		"/client/auth/validate-token": true,
		"/auth/me":                    false,
		"/auth/logout":                false,
		"/client/courses":             false,
	} {
		require.Equal(t, want, apiclient.IsAuthEndpoint(path), path)
	}
}
