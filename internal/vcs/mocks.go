package vcs

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/repocheck/internal/models"
)

type MockVCSClient struct {
	mock.Mock
}

func (m *MockVCSClient) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVCSClient) BranchesByAuthor(ctx context.Context, q models.RepositoryQuery, candidates []string) ([]string, error) {
	args := m.Called(ctx, q, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVCSClient) LastCommitByAuthor(ctx context.Context, owner, repo, branch, author string) (string, error) {
	args := m.Called(ctx, owner, repo, branch, author)
	return args.String(0), args.Error(1)
}

func (m *MockVCSClient) CreateBranchFromBase(ctx context.Context, owner, repo, author, base string) (string, error) {
	args := m.Called(ctx, owner, repo, author, base)
	return args.String(0), args.Error(1)
}
