package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"contentapi/internal/lint"
	"contentapi/internal/model"
	"contentapi/internal/service"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Publish(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Post, *lint.Report, error) {
	args := m.Called(ctx, r, originalFilename, size)
	var post *model.Post
	if args.Get(0) != nil {
		post = args.Get(0).(*model.Post)
	}
	var rep *lint.Report
	if args.Get(1) != nil {
		rep = args.Get(1).(*lint.Report)
	}
	return post, rep, args.Error(2)
}

func (m *MockPostService) Get(ctx context.Context, id string) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*model.Post, error) {
	args := m.Called(ctx, slug, includeDrafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) List(ctx context.Context, q service.ListQuery) (*service.PostListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostListResult), args.Error(1)
}

func (m *MockPostService) Tags(ctx context.Context) ([]model.TagCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TagCount), args.Error(1)
}

func (m *MockPostService) Source(ctx context.Context, id string) (io.ReadCloser, *model.Post, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var post *model.Post
	if args.Get(1) != nil {
		post = args.Get(1).(*model.Post)
	}
	return rc, post, args.Error(2)
}

func (m *MockPostService) RenderHTML(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
