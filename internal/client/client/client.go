package client

import (
	"context"
)

// Client is the transport contract the session store and feature services
// depend on. APIClient is the HTTP implementation.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	PostForm(ctx context.Context, path string, form *Form) (*Response, error)
	Ping(ctx context.Context) error
}

// TokenStorage is the part of durable storage the client needs: it reads the
// bearer token and clears the session keys on a 401.
type TokenStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	DeleteMany(ctx context.Context, keys ...string) error
}

var _ Client = (*APIClient)(nil)
