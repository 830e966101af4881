package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a successful reply. Body is returned exactly as received.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// DecodeJSON unmarshals the whole body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DecodeData unmarshals the "data" member of a {"success":..,"data":..}
// envelope into v, or the whole body when there is no envelope.
func (r *Response) DecodeData(v any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		if err := json.Unmarshal(envelope.Data, v); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
		return nil
	}
	return r.DecodeJSON(v)
}

// Unwrap decodes a T from body, accepting both {"data": T} and a bare T.
func Unwrap[T any](body []byte) (T, error) {
	var out T
	if len(body) == 0 {
		return out, nil
	}
	err := (&Response{Body: body}).DecodeData(&out)
	return out, err
}

// Do sends req and decodes the (possibly enveloped) payload into a T.
func Do[T any](ctx context.Context, c *Client, req *Request) (T, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return Unwrap[T](resp.Body)
}
