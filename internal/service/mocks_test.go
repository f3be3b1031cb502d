package service

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Do(ctx context.Context, method, path string, body, out any) error {
	args := m.Called(ctx, method, path, body, out)
	return args.Error(0)
}

func (m *mockAPI) Public(ctx context.Context, method, path string, body, out any) error {
	args := m.Called(ctx, method, path, body, out)
	return args.Error(0)
}

func (m *mockAPI) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	args := m.Called(ctx, path, form, out)
	return args.Error(0)
}

type mockCredentials struct {
	mock.Mock
}

func (m *mockCredentials) Get() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *mockCredentials) Set(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockCredentials) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
