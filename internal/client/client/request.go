package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"time"
)

// Request describes one call to the backend. Header may be set by the caller;
// the request stage of APIClient adjusts it before dispatch.
type Request struct {
	Method string
	// Path is relative to the API base URL, e.g. "/auth/login".
	Path string
	// Body is nil, a *Form (sent as multipart/form-data) or any value that
	// encodes to JSON. A json.RawMessage is sent as is.
	Body   any
	Header http.Header
	// Timeout overrides the client default when non-zero.
	Timeout time.Duration
}

func (r *Request) form() (*Form, bool) {
	f, ok := r.Body.(*Form)
	return f, ok && f != nil
}

func (r *Request) hasBody() bool {
	if r.Body == nil {
		return false
	}
	if f, ok := r.Body.(*Form); ok {
		return f != nil
	}
	return true
}

// Form is a multipart body. Files are read fully when the request is built.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	r               io.Reader
}

func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain text part.
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part. The part content type is derived from the
// filename extension.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

// encode renders the form and returns the body together with the
// multipart content type carrying the boundary.
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, filepath.Base(file.filename)))
		ct := mime.TypeByExtension(filepath.Ext(file.filename))
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("read %s: %w", file.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Envelope is the {success, data, message} convention used by every backend route.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	// Raw is the whole body, for routes that put results next to "data".
	Raw json.RawMessage `json:"-"`
}

// Err returns a *LogicalError when the envelope reports failure.
func (e *Envelope) Err() error {
	if e.Success {
		return nil
	}
	return &LogicalError{Message: e.Message, Code: e.Error}
}

// DecodeEnvelope parses a response body. Bodies that are not a JSON object
// yield ErrMalformedResponse.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env *Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	env.Raw = append(json.RawMessage(nil), body...)
	return env, nil
}

// DecodeData decodes a successful envelope and unmarshals its data into T.
// A success=false envelope returns its *LogicalError.
func DecodeData[T any](resp *Response) (T, error) {
	var zero T
	if resp == nil {
		return zero, errors.New("nil response")
	}
	env, err := DecodeEnvelope(resp.Body)
	if err != nil {
		return zero, err
	}
	if err := env.Err(); err != nil {
		return zero, err
	}
	var out T
	if len(env.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("%w: data: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// envelopeMessage returns the "message" field of body, or "" when the body
// is not an envelope.
func envelopeMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
