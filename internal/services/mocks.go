package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/repocheck/internal/checkout"
	"github.com/thomas-vilte/repocheck/internal/models"
)

type (
	MockPreparer struct {
		mock.Mock
	}

	MockDetector struct {
		mock.Mock
	}

	MockResultCache struct {
		mock.Mock
	}
)

func (m *MockPreparer) Prepare(ctx context.Context, ref models.CommitReference) (*checkout.Checkout, error) {
	args := m.Called(ctx, ref)
	if co := args.Get(0); co != nil {
		return co.(*checkout.Checkout), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDetector) Detect(ctx context.Context, repoPath string) (models.Language, error) {
	args := m.Called(ctx, repoPath)
	return args.Get(0).(models.Language), args.Error(1)
}

func (m *MockResultCache) Key(parts ...string) string {
	args := m.Called(parts)
	return args.String(0)
}

func (m *MockResultCache) Get(hash string) (json.RawMessage, bool, error) {
	args := m.Called(hash)
	var raw json.RawMessage
	if v := args.Get(0); v != nil {
		raw = v.(json.RawMessage)
	}
	return raw, args.Bool(1), args.Error(2)
}

func (m *MockResultCache) Set(hash string, response interface{}) error {
	args := m.Called(hash, response)
	return args.Error(0)
}
