package apiclient

import (
	"net/http"

	"github.com/NMHx2005/lms-frontend-sub000/notify"
	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithHTTPClient uses hc as the underlying client. Its Timeout is kept when
// set, otherwise Config.Timeout applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport replaces the base transport below the middleware chain.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithMiddleware appends transport middleware after the built-in ones.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithNotifier sets the sink for user-facing failure messages.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
