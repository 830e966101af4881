package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
)

const (
	contentTypeJSON = "application/json"
	headerContent   = "Content-Type"
)

// Body is a request payload. It is encoded once per Send so a retried
// request replays exactly the same bytes.
type Body interface {
	encode() (*encodedBody, error)
}

type encodedBody struct {
	data        []byte
	contentType string
	multipart   bool
}

type jsonBody struct {
	value any
}

// JSON encodes v as the request body.
func JSON(v any) Body {
	return jsonBody{value: v}
}

func (b jsonBody) encode() (*encodedBody, error) {
	data, err := json.Marshal(b.value)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return &encodedBody{data: data, contentType: contentTypeJSON}, nil
}

type rawBody struct {
	contentType string
	data        []byte
}

// Raw sends data as-is with the given content type.
func Raw(contentType string, data []byte) Body {
	return rawBody{contentType: contentType, data: data}
}

func (b rawBody) encode() (*encodedBody, error) {
	return &encodedBody{data: b.data, contentType: b.contentType}, nil
}

// File is one file part of a multipart body.
type File struct {
	Field       string
	Name        string
	ContentType string // Defaults to application/octet-stream
	Content     []byte
}

type multipartBody struct {
	fields map[string]string
	files  []File
}

// Multipart builds a multipart/form-data body. The boundary-bearing
// Content-Type is always the one produced here; any Content-Type set on the
// request is dropped.
func Multipart(fields map[string]string, files ...File) Body {
	return multipartBody{fields: fields, files: files}
}

func (b multipartBody) encode() (*encodedBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(b.fields))
	for name := range b.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteField(name, b.fields[name]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for _, f := range b.files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		h.Set(headerContent, ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}
	return &encodedBody{data: buf.Bytes(), contentType: w.FormDataContentType(), multipart: true}, nil
}
