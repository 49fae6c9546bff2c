package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	return sliceOrNil[*github.Branch](args.Get(0)), responseOrNil(args.Get(1)), args.Error(2)
}

func (m *MockRepoService) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	return sliceOrNil[*github.RepositoryCommit](args.Get(0)), responseOrNil(args.Get(1)), args.Error(2)
}

func (m *MockRepoService) GetBranch(ctx context.Context, owner, repo, branch string, maxRedirects int) (*github.Branch, *github.Response, error) {
	args := m.Called(ctx, owner, repo, branch, maxRedirects)
	var b *github.Branch
	if v := args.Get(0); v != nil {
		b = v.(*github.Branch)
	}
	return b, responseOrNil(args.Get(1)), args.Error(2)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	var r *github.Reference
	if v := args.Get(0); v != nil {
		r = v.(*github.Reference)
	}
	return r, responseOrNil(args.Get(1)), args.Error(2)
}

func sliceOrNil[T any](v interface{}) []T {
	if v == nil {
		return nil
	}
	return v.([]T)
}

func responseOrNil(v interface{}) *github.Response {
	if v == nil {
		return nil
	}
	return v.(*github.Response)
}
