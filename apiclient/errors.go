package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
)

const (
	FallbackMessage     = "Something went wrong. Please try again."
	NetworkErrorMessage = "Network error. Please check your connection."
	TimeoutMessage      = "Request timed out. Please try again."
)

// Kind classifies a failed call.
type Kind int

const (
	// KindHTTP is a response with a non-2xx status
	KindHTTP Kind = iota
	// KindTransport means no response was received
	KindTransport
	// KindTimeout means the request exceeded Config.Timeout or its context deadline
	KindTimeout
	// KindRequest means the request could not be built or its session read
	KindRequest
	// KindResponse is a 2xx response whose body could not be used
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the normalised failure every Send returns.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // 0 unless Kind is KindHTTP
	Body       []byte // Raw response body, if any
	Message    string // Human readable, suitable for the notifier
	RequestID  string
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers test with the sentinel errors, e.g.
// errors.Is(err, apperrors.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	switch target {
	case apperrors.ErrUnauthorized:
		return e.Kind == KindHTTP && e.StatusCode == http.StatusUnauthorized
	case apperrors.ErrNotFound:
		return e.Kind == KindHTTP && e.StatusCode == http.StatusNotFound
	case apperrors.ErrTimeout:
		return e.Kind == KindTimeout
	case apperrors.ErrTransport:
		return e.Kind == KindTransport || e.Kind == KindTimeout
	case apperrors.ErrInvalidRequest:
		return e.Kind == KindRequest
	}
	return false
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the user-facing message for any error the client returns.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackMessage
}

func newHTTPError(method, path string, resp *Response) *Error {
	return &Error{
		Kind:       KindHTTP,
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Message:    ExtractMessage(resp.Body),
		RequestID:  resp.RequestID,
	}
}

func newTransportError(method, path string, err error) *Error {
	e := &Error{Kind: KindTransport, Method: method, Path: path, Message: NetworkErrorMessage, Err: err}
	if isTimeout(err) {
		e.Kind = KindTimeout
		e.Message = TimeoutMessage
	}
	return e
}

func newRequestError(method, path string, err error) *Error {
	return &Error{Kind: KindRequest, Method: method, Path: path, Message: FallbackMessage, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ExtractMessage pulls a displayable message out of an error response body.
// The backend has used several shapes over time; they are tried in order:
// error.details[] ("field: message" lines), error.message, message,
// error_message, the first entry of errors[], then FallbackMessage.
func ExtractMessage(body []byte) string {
	var payload map[string]any
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return FallbackMessage
	}

	if errObj, ok := payload["error"].(map[string]any); ok {
		if msg := detailLines(errObj["details"]); msg != "" {
			return msg
		}
		if msg := nonEmptyString(errObj["message"]); msg != "" {
			return msg
		}
	}
	if msg := nonEmptyString(payload["message"]); msg != "" {
		return msg
	}
	if msg := nonEmptyString(payload["error_message"]); msg != "" {
		return msg
	}
	if errs, ok := payload["errors"].([]any); ok && len(errs) > 0 {
		if msg := messageOf(errs[0]); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}

func detailLines(v any) string {
	details, ok := v.([]any)
	if !ok {
		return ""
	}
	lines := make([]string, 0, len(details))
	for _, d := range details {
		switch detail := d.(type) {
		case string:
			if detail != "" {
				lines = append(lines, detail)
			}
		case map[string]any:
			field := nonEmptyString(detail["field"])
			msg := nonEmptyString(detail["message"])
			switch {
			case field != "" && msg != "":
				lines = append(lines, field+": "+msg)
			case msg != "":
				lines = append(lines, msg)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func messageOf(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		if msg := nonEmptyString(e["message"]); msg != "" {
			return msg
		}
		return nonEmptyString(e["msg"])
	}
	return ""
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
