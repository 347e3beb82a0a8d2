package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRenderCache struct {
	mock.Mock
}

func (m *MockRenderCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderCache) Set(ctx context.Context, key string, html []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, html, ttl)
	return args.Error(0)
}

func (m *MockRenderCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
