package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 60 * time.Second
)

// APIClient talks to the legal-saarthi backend over HTTP.
//
// Every call passes the request stage (prepareRequest) and then the
// interceptor chain, the last of which is the session guard.
type APIClient struct {
	baseURL      *url.URL
	httpClient   *http.Client
	storage      TokenStorage
	timeout      time.Duration
	log          logging.Logger
	metrics      *Metrics
	tracer       *Tracer
	onInvalidate func(ctx context.Context)
	interceptors []Interceptor

	invoke Invoker
}

type Option func(*APIClient)

// WithHTTPClient replaces the underlying http.Client. A copy is kept with its
// Timeout cleared; deadlines come from the request context.
func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) {
		if c == nil {
			return
		}
		hc := *c
		hc.Timeout = 0
		a.httpClient = &hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(a *APIClient) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(a *APIClient) {
		a.log = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(a *APIClient) {
		a.metrics = m
	}
}

func WithTracer(t *Tracer) Option {
	return func(a *APIClient) {
		a.tracer = t
	}
}

// WithSessionInvalidatedHandler registers fn to run after a 401 response has
// cleared the stored session. fn is called synchronously, once per 401.
func WithSessionInvalidatedHandler(fn func(ctx context.Context)) Option {
	return func(a *APIClient) {
		a.onInvalidate = fn
	}
}

// WithInterceptors appends interceptors that run after the built-in ones and
// before the session guard.
func WithInterceptors(in ...Interceptor) Option {
	return func(a *APIClient) {
		a.interceptors = append(a.interceptors, in...)
	}
}

// NewAPIClient builds a client for baseURL. An empty baseURL means DefaultBaseURL.
func NewAPIClient(baseURL string, storage TokenStorage, opts ...Option) (*APIClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if storage == nil {
		return nil, errors.New("token storage is required")
	}

	c := &APIClient{
		baseURL:    u,
		httpClient: &http.Client{},
		storage:    storage,
		timeout:    DefaultTimeout,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	chain := []Interceptor{requestIDInterceptor}
	if c.tracer != nil {
		chain = append(chain, c.tracer.interceptor(c.route))
	}
	if c.metrics != nil {
		chain = append(chain, c.metrics.interceptor(c.route))
	}
	chain = append(chain, loggingInterceptor(c.log, c.route))
	chain = append(chain, c.interceptors...)
	chain = append(chain, c.sessionGuard)

	c.invoke = chainInterceptors(chain, c.send)
	return c, nil
}

// BaseURL returns the configured API root.
func (c *APIClient) BaseURL() string {
	return c.baseURL.String()
}

// Do prepares and dispatches req. The returned error is one of *StatusError,
// *TransportError, or a request-building error.
func (c *APIClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.prepareRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.invoke(httpReq)
}

func (c *APIClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

func (c *APIClient) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *APIClient) PostForm(ctx context.Context, path string, form *Form) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: form})
}

// Ping checks backend reachability via the health route. A body with
// "success": false counts as unhealthy; any other 2xx body is fine.
func (c *APIClient) Ping(ctx context.Context) error {
	resp, err := c.Get(ctx, common.HealthPath)
	if err != nil {
		return err
	}

	var health struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if json.Unmarshal(resp.Body, &health) == nil && health.Success != nil && !*health.Success {
		return &LogicalError{Message: health.Message}
	}
	return nil
}

// prepareRequest is the request stage: it resolves the URL, encodes the
// body, attaches the bearer token and sets the content type.
func (c *APIClient) prepareRequest(ctx context.Context, req *Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	var (
		body        io.Reader
		contentType string
	)
	if form, ok := req.form(); ok {
		// The boundary is only known once the form is encoded.
		header.Del(common.ContentTypeHeaderName)
		body, contentType, err = form.encode()
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
	} else if req.hasBody() {
		var raw []byte
		switch b := req.Body.(type) {
		case json.RawMessage:
			raw = b
		default:
			raw, err = json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("encode body: %w", err)
			}
		}
		body = bytes.NewReader(raw)
		header.Set(common.ContentTypeHeaderName, common.JSONContentType)
	}

	token, err := c.storage.Get(ctx, common.AuthTokenKey)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if len(token) > 0 {
		header.Set(common.AuthorizationHeaderName, common.BearerPrefix+string(token))
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header = header
	if contentType != "" {
		httpReq.Header.Set(common.ContentTypeHeaderName, contentType)
	}
	return httpReq, nil
}

func (c *APIClient) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty request path")
	}
	rel, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if rel.IsAbs() {
		return "", fmt.Errorf("invalid path %q: must be relative to the base url", path)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawQuery = rel.RawQuery
	return u.String(), nil
}

func (c *APIClient) relPath(r *http.Request) string {
	return "/" + strings.Trim(strings.TrimPrefix(r.URL.Path, c.baseURL.Path), "/")
}

// route is the path relative to the base URL, reduced to its first two
// segments, used as a low-cardinality label.
func (c *APIClient) route(r *http.Request) string {
	parts := strings.SplitN(strings.TrimPrefix(c.relPath(r), "/"), "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}

// send is the innermost invoker: it performs the round trip and reads the body.
func (c *APIClient) send(r *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, c.transportError(r, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(r, err)
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &StatusError{
			Method:     r.Method,
			Path:       c.relPath(r),
			StatusCode: resp.StatusCode,
			Body:       body,
			Message:    envelopeMessage(body),
		}
	}
	return out, nil
}

func (c *APIClient) transportError(r *http.Request, err error) *TransportError {
	te := &TransportError{Method: r.Method, Path: c.relPath(r), Err: err}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		te.Timeout = true
	}
	return te
}
