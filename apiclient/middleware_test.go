package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NMHx2005/lms-frontend-sub000/apiclient"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) apiclient.Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return apiclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}
	base := apiclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	rt := apiclient.Chain(base, tag("first"), tag("second"))
	req := httptest.NewRequest(http.MethodGet, "http://lms.local/api/x", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "base"}, order)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	base := apiclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get(apiclient.HeaderRequestID)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})
	rt := apiclient.Chain(base, apiclient.RequestIDMiddleware())

	req := httptest.NewRequest(http.MethodGet, "http://lms.local/api/x", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Len(t, seen, 36)
	require.Empty(t, req.Header.Get(apiclient.HeaderRequestID), "caller's request untouched")

	req.Header.Set(apiclient.HeaderRequestID, "fixed")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "fixed", seen)
}

func TestWithMiddleware_SeesClientRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "lms-cli", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var requestID string
	agent := func(next http.RoundTripper) http.RoundTripper {
		return apiclient.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())
			r.Header.Set("User-Agent", "lms-cli")
			requestID = r.Header.Get(apiclient.HeaderRequestID)
			return next.RoundTrip(r)
		})
	}

	cfg := apiclient.DefaultConfig()
	cfg.BaseOrigin = srv.URL
	c, err := apiclient.New(cfg, nil, apiclient.WithMiddleware(agent))
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), apiclient.Get("/ping"))
	require.NoError(t, err)
	require.Equal(t, resp.RequestID, requestID)
}
