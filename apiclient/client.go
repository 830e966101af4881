package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"github.com/NMHx2005/lms-frontend-sub000/notify"
	"github.com/NMHx2005/lms-frontend-sub000/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const headerAuthorization = "Authorization"

// Client issues authenticated requests against the LMS API. It attaches the
// stored access token, refreshes it once when a request comes back 401, and
// turns failures into *Error values with a displayable message.
//
// A Client is safe for concurrent use.
type Client struct {
	cfg      Config
	store    session.Store
	notifier notify.Notifier
	logger   zerolog.Logger

	httpClient *http.Client
	transport  http.RoundTripper
	middleware []Middleware

	refreshGroup singleflight.Group

	headerLock    sync.RWMutex
	defaultHeader http.Header
}

// New builds a client. A nil store keeps the session in memory.
func New(cfg Config, store session.Store, opts ...Option) (*Client, error) {
	cfg = cfg.Normalize()
	if _, err := url.ParseRequestURI(cfg.BaseURL()); err != nil {
		return nil, apperrors.Wrapf(err, "invalid base URL %q", cfg.BaseURL())
	}
	if store == nil {
		store = session.NewMemoryStore()
	}

	c := &Client{
		cfg:           cfg,
		store:         store,
		logger:        log.Logger,
		defaultHeader: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = notify.NewLogNotifier(c.logger)
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	base := c.transport
	if base == nil {
		base = hc.Transport
	}
	mw := append([]Middleware{RequestIDMiddleware(), LoggingMiddleware(c.logger)}, c.middleware...)
	hc.Transport = Chain(base, mw...)
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
	}
	if cfg.WithCredentials && hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	c.httpClient = hc

	return c, nil
}

// Config returns the normalised configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Store is the session store the client reads tokens from.
func (c *Client) Store() session.Store {
	return c.store
}

// HTTPClient is the configured client, cookie jar included.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Send performs req. On success the response body is returned unchanged.
// On failure the returned error is an *Error; unless the request is quiet
// its message has also been sent to the notifier.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Method == "" {
		return nil, newRequestError("", "", apperrors.ErrInvalidRequest)
	}

	var body *encodedBody
	if req.Body != nil {
		var err error
		if body, err = req.Body.encode(); err != nil {
			reqErr := newRequestError(req.Method, req.Path, err)
			c.report(ctx, req, reqErr)
			return nil, reqErr
		}
	}

	a := newAttempt(req, body, uuid.New().String())
	resp, err := c.roundTrip(ctx, a)
	if err == nil {
		return resp, nil
	}

	if c.refreshable(a, err) {
		a.to(stateRefreshingAuth)
		authorization, refreshErr := c.refresh(ctx)
		switch {
		case refreshErr == nil:
			a.authorization = authorization
			a.to(stateRetrying)
			if resp, err = c.roundTrip(ctx, a); err == nil {
				return resp, nil
			}
		case errors.Is(refreshErr, apperrors.ErrNoRefreshToken):
			a.to(stateFailed)
			c.logger.Debug().Str("path", req.Path).Msg("401 without a refresh token")
		case ctx.Err() != nil:
			// The caller gave up; the refresh token may still be good
			a.to(stateFailed)
			c.logger.Debug().Err(refreshErr).Str("path", req.Path).Msg("token refresh abandoned, session kept")
			return nil, refreshErr
		default:
			a.to(stateFailed)
			c.logger.Warn().Err(refreshErr).Str("path", req.Path).Msg("token refresh failed, clearing session")
			c.dropSession(ctx)
			return nil, refreshErr
		}
	}

	c.report(ctx, req, err)
	return nil, err
}

// ResetAuthorization forgets the Authorization header installed by the
// last refresh. The session store is left alone.
func (c *Client) ResetAuthorization() {
	c.headerLock.Lock()
	defer c.headerLock.Unlock()
	c.defaultHeader.Del(headerAuthorization)
}

func (c *Client) setDefaultAuthorization(value string) {
	c.headerLock.Lock()
	defer c.headerLock.Unlock()
	c.defaultHeader.Set(headerAuthorization, value)
}

func (c *Client) refreshable(a *attempt, err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindHTTP || apiErr.StatusCode != http.StatusUnauthorized {
		return false
	}
	if a.retried || a.anonymous {
		return false
	}
	return !IsAuthEndpoint(a.req.Path) && !strings.Contains(a.req.Path, c.cfg.RefreshPath)
}

func (c *Client) roundTrip(ctx context.Context, a *attempt) (*Response, error) {
	a.begin()

	hreq, err := c.newHTTPRequest(ctx, a)
	if err != nil {
		a.to(stateFailed)
		reqErr := newRequestError(a.req.Method, a.req.Path, err)
		reqErr.RequestID = a.requestID
		return nil, reqErr
	}

	hresp, err := c.httpClient.Do(hreq)
	if err != nil {
		a.to(stateFailed)
		transportErr := newTransportError(a.req.Method, a.req.Path, err)
		transportErr.RequestID = a.requestID
		return nil, transportErr
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		a.to(stateFailed)
		transportErr := newTransportError(a.req.Method, a.req.Path, err)
		transportErr.RequestID = a.requestID
		return nil, transportErr
	}

	resp := &Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       data,
		RequestID:  a.requestID,
	}
	if hresp.StatusCode >= 200 && hresp.StatusCode < 300 {
		a.to(stateSuccess)
		return resp, nil
	}
	a.to(stateFailed)
	return nil, newHTTPError(a.req.Method, a.req.Path, resp)
}

func (c *Client) newHTTPRequest(ctx context.Context, a *attempt) (*http.Request, error) {
	target, err := c.resolve(a.req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body.data)
	}
	hreq, err := http.NewRequestWithContext(ctx, a.req.Method, target, body)
	if err != nil {
		return nil, err
	}

	if !a.anonymous {
		c.headerLock.RLock()
		for k, vs := range c.defaultHeader {
			hreq.Header[k] = append([]string(nil), vs...)
		}
		c.headerLock.RUnlock()
	}
	for k, vs := range a.req.Header {
		hreq.Header.Del(k)
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	if a.body != nil {
		// Multipart needs the boundary we generated, never a caller's value
		if a.body.multipart || hreq.Header.Get(headerContent) == "" {
			hreq.Header.Set(headerContent, a.body.contentType)
		}
	}
	if hreq.Header.Get("Accept") == "" {
		hreq.Header.Set("Accept", contentTypeJSON)
	}
	hreq.Header.Set(HeaderRequestID, a.requestID)

	if a.anonymous {
		return hreq, nil
	}
	if c.cfg.UseBearerAuth {
		accessToken, err := session.AccessToken(ctx, c.store)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
		if accessToken != "" {
			hreq.Header.Set(headerAuthorization, "Bearer "+accessToken)
		}
	}
	if a.authorization != "" {
		hreq.Header.Set(headerAuthorization, a.authorization)
	}
	return hreq, nil
}

// resolve joins the request path onto the base URL. Absolute URLs are used
// as they are.
func (c *Client) resolve(req *Request) (string, error) {
	raw := req.Path
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		raw = c.cfg.BaseURL() + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidRequest, err)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// report logs a final failure and, unless the request is quiet, notifies.
func (c *Client) report(ctx context.Context, req *Request, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{Method: req.Method, Path: req.Path, Message: FallbackMessage, Err: err}
	}

	c.logger.Error().
		Str("method", apiErr.Method).
		Str("path", apiErr.Path).
		Int("status", apiErr.StatusCode).
		Str("kind", apiErr.Kind.String()).
		Str("request_id", apiErr.RequestID).
		Err(err).
		Msg(apiErr.Message)

	if req.SuppressErrorNotification {
		return
	}
	level := notify.LevelError
	if apiErr.Kind == KindTransport || apiErr.Kind == KindTimeout {
		level = notify.LevelWarning
	}
	c.notifier.Notify(ctx, notify.Notification{
		Level:      level,
		Message:    apiErr.Message,
		Method:     apiErr.Method,
		Path:       apiErr.Path,
		StatusCode: apiErr.StatusCode,
		RequestID:  apiErr.RequestID,
	})
}

func (c *Client) dropSession(ctx context.Context) {
	c.ResetAuthorization()
	// The failing request's context may already be done
	if err := session.ClearTokens(context.WithoutCancel(ctx), c.store); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session")
	}
}
