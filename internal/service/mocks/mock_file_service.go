package mocks

import (
	"context"
	"iter"

	"docexchange/internal/model"
	"docexchange/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, principal int64, in service.UploadInput) (*model.StoredFile, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredFile), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, limit, offset int) (*service.FileListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) ListAll(ctx context.Context) iter.Seq2[model.StoredFile, error] {
	args := m.Called(ctx)
	return args.Get(0).(iter.Seq2[model.StoredFile, error])
}

func (m *MockFileService) MintLink(ctx context.Context, principal int64, fileID int64) (string, error) {
	args := m.Called(ctx, principal, fileID)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Resolve(ctx context.Context, principal int64, token string) (*service.Download, error) {
	args := m.Called(ctx, principal, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func (m *MockFileService) PresignDownload(ctx context.Context, principal int64, token string) (*service.PresignedURL, error) {
	args := m.Called(ctx, principal, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PresignedURL), args.Error(1)
}
