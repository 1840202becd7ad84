package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/Rajgupta764/legal-saarthi/internal/logging"
)

// Invoker dispatches a prepared request.
type Invoker func(r *http.Request) (*Response, error)

// Interceptor wraps an Invoker. It may modify the request before calling
// next and inspect or replace the result afterwards.
type Interceptor func(r *http.Request, next Invoker) (*Response, error)

// chainInterceptors builds one Invoker; in[0] is the outermost.
func chainInterceptors(in []Interceptor, final Invoker) Invoker {
	next := final
	for i := len(in) - 1; i >= 0; i-- {
		ic, inner := in[i], next
		next = func(r *http.Request) (*Response, error) {
			return ic(r, inner)
		}
	}
	return next
}

// requestIDInterceptor tags the request with an X-Request-ID unless the
// caller already set one.
func requestIDInterceptor(r *http.Request, next Invoker) (*Response, error) {
	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	return next(r)
}

func loggingInterceptor(log logging.Logger, route func(*http.Request) string) Interceptor {
	return func(r *http.Request, next Invoker) (*Response, error) {
		start := time.Now()
		resp, err := next(r)

		args := []any{
			"method", r.Method,
			"route", route(r),
			"request_id", r.Header.Get(common.RequestIDHeaderName),
			"duration", time.Since(start),
		}
		if resp != nil {
			args = append(args, "status", resp.StatusCode)
		}

		ctx := r.Context()
		var te *TransportError
		switch {
		case err == nil:
			log.Debug(ctx, "request done", args...)
		case errors.As(err, &te):
			log.Warn(ctx, "request failed", append(args, "error", err)...)
		default:
			log.Info(ctx, "request rejected", append(args, "error", err)...)
		}
		return resp, err
	}
}

// sessionGuard is the response stage. A 401 clears both session keys and
// notifies the invalidation handler; everything else passes through.
func (c *APIClient) sessionGuard(r *http.Request, next Invoker) (*Response, error) {
	resp, err := next(r)

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// The caller's context may already be done; clearing must still happen.
	ctx := context.WithoutCancel(r.Context())
	if derr := c.storage.DeleteMany(ctx, common.AuthTokenKey, common.UserDataKey); derr != nil {
		c.log.Error(ctx, "failed to clear session after 401", "route", c.route(r), "error", derr)
	}
	c.log.Info(ctx, "session invalidated", "route", c.route(r))

	if c.onInvalidate != nil {
		c.onInvalidate(ctx)
	}
	return resp, err
}
