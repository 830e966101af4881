package apiclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Middleware wraps a transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base so that mw[0] sees the request first.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// RequestIDMiddleware stamps requests that have no X-Request-ID.
func RequestIDMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(HeaderRequestID) != "" {
				return next.RoundTrip(r)
			}
			// A RoundTripper must not modify the caller's request
			r = r.Clone(r.Context())
			r.Header.Set(HeaderRequestID, uuid.New().String())
			return next.RoundTrip(r)
		})
	}
}

// LoggingMiddleware logs every round trip at debug level.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			evt := logger.Debug().
				Str("method", r.Method).
				Str("url", r.URL.Redacted()).
				Str("request_id", r.Header.Get(HeaderRequestID)).
				Dur("elapsed", time.Since(start))
			if err != nil {
				evt.Err(err).Msg("request failed")
				return resp, err
			}
			evt.Int("status", resp.StatusCode).Msg("request")
			return resp, nil
		})
	}
}
