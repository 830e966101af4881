package apiclient

import (
	"net/http"
	"net/url"
)

// Request describes one API call. Values are treated as immutable: the With*
// methods return modified copies and the client never writes to a Request.
type Request struct {
	Method string
	Path   string // Relative to Config.BaseURL()
	Query  url.Values
	Header http.Header
	Body   Body

	// SuppressErrorNotification keeps a failure of this call away from the
	// notifier. The error is still returned.
	SuppressErrorNotification bool
}

func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}

// Get, Post, Put, Patch and Delete build a request for the named method.
func Get(path string) *Request    { return NewRequest(http.MethodGet, path) }
func Post(path string) *Request   { return NewRequest(http.MethodPost, path) }
func Put(path string) *Request    { return NewRequest(http.MethodPut, path) }
func Patch(path string) *Request  { return NewRequest(http.MethodPatch, path) }
func Delete(path string) *Request { return NewRequest(http.MethodDelete, path) }

func (r *Request) clone() *Request {
	c := *r
	if r.Query != nil {
		c.Query = make(url.Values, len(r.Query))
		for k, v := range r.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	c.Header = r.Header.Clone()
	return &c
}

// WithQuery adds a query parameter.
func (r *Request) WithQuery(key, value string) *Request {
	c := r.clone()
	if c.Query == nil {
		c.Query = url.Values{}
	}
	c.Query.Add(key, value)
	return c
}

// WithQueryValues adds every parameter in values.
func (r *Request) WithQueryValues(values url.Values) *Request {
	c := r.clone()
	if c.Query == nil {
		c.Query = url.Values{}
	}
	for k, vs := range values {
		for _, v := range vs {
			c.Query.Add(k, v)
		}
	}
	return c
}

func (r *Request) WithHeader(key, value string) *Request {
	c := r.clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Header.Set(key, value)
	return c
}

func (r *Request) WithBody(body Body) *Request {
	c := r.clone()
	c.Body = body
	return c
}

// WithJSON is shorthand for WithBody(JSON(v)).
func (r *Request) WithJSON(v any) *Request {
	return r.WithBody(JSON(v))
}

// Quiet returns a copy whose failures are not sent to the notifier.
func (r *Request) Quiet() *Request {
	c := r.clone()
	c.SuppressErrorNotification = true
	return c
}
