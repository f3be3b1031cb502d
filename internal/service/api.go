package service

import (
	"context"
	"net/url"
)

// API is the authenticated side of the resource client.
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// PublicAPI performs calls that need no credential.
type PublicAPI interface {
	Public(ctx context.Context, method, path string, body, out any) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}

// Credentials is the session the auth service writes to.
type Credentials interface {
	Get() (string, bool)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
