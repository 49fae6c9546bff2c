package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	mcp_internal "github.com/thomas-vilte/repocheck/internal/mcp"
	"github.com/thomas-vilte/repocheck/internal/models"
)

type mockBranches struct {
	mock.Mock
}

func (m *mockBranches) AuthorBranches(ctx context.Context, q models.RepositoryQuery) ([]string, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockBranches) CreateAuthorBranch(ctx context.Context, owner, repo, author, base string) (string, error) {
	args := m.Called(ctx, owner, repo, author, base)
	return args.String(0), args.Error(1)
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(ctx context.Context, kind models.EvaluationKind, ref models.CommitReference, progress func(models.Progress)) (*models.Report, error) {
	args := m.Called(ctx, kind, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func call(t *testing.T, branches *mockBranches, evaluator *mockEvaluator, name string, arguments map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(branches, evaluator)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: arguments},
	})
	require.NoError(t, err, "tool failures must be reported in the result, not as a raw error")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestGetAuthorBranches(t *testing.T) {
	t.Run("should return the qualifying branches", func(t *testing.T) {
		branches := &mockBranches{}
		branches.On("AuthorBranches", mock.Anything, mock.MatchedBy(func(q models.RepositoryQuery) bool {
			return q.Owner == "acme" && q.Repo == "hw" && q.Author == "ana" && q.Since != nil && q.Until == nil
		})).Return([]string{"feature/a"}, nil)

		res := call(t, branches, &mockEvaluator{}, "get_author_branches", map[string]any{
			"owner": "acme", "repo": "hw", "author": "ana", "since": "2024-01-01",
		})

		assert.False(t, res.IsError)
		assert.JSONEq(t, `{"branches":["feature/a"]}`, text(res))
	})

	t.Run("should reject a missing author before calling GitHub", func(t *testing.T) {
		branches := &mockBranches{}

		res := call(t, branches, &mockEvaluator{}, "get_author_branches", map[string]any{
			"owner": "acme", "repo": "hw",
		})

		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "author cannot be empty")
		branches.AssertNotCalled(t, "AuthorBranches", mock.Anything, mock.Anything)
	})

	t.Run("should hide unexpected failures", func(t *testing.T) {
		branches := &mockBranches{}
		branches.On("AuthorBranches", mock.Anything, mock.Anything).
			Return(nil, domainErrors.ErrRemoteAPI.WithError(errors.New("502 bad gateway")))

		res := call(t, branches, &mockEvaluator{}, "get_author_branches", map[string]any{
			"owner": "acme", "repo": "hw", "author": "ana",
		})

		assert.True(t, res.IsError)
		assert.Equal(t, mcp_internal.InternalErrorMessage, text(res))
	})
}

func TestCreateAuthorBranch(t *testing.T) {
	branches := &mockBranches{}
	branches.On("CreateAuthorBranch", mock.Anything, "acme", "hw", "ana", "main").Return("student/ana", nil)

	res := call(t, branches, &mockEvaluator{}, "create_author_branch", map[string]any{
		"owner": "acme", "repo": "hw", "author": "ana", "base": "main",
	})

	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"branch":"student/ana"}`, text(res))
}

func TestVerifyTools(t *testing.T) {
	args := map[string]any{"owner": "acme", "repo": "hw", "branch": "main", "author": "ana"}
	ref := models.CommitReference{Owner: "acme", Repo: "hw", Branch: "main", Author: "ana"}

	t.Run("should return only the score by default", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		evaluator.On("Evaluate", mock.Anything, models.EvaluationTests, ref).
			Return(&models.Report{Kind: models.EvaluationTests, Score: 75, Passed: 3, Failed: 1}, nil)

		res := call(t, &mockBranches{}, evaluator, "verify_tests", args)

		assert.False(t, res.IsError)
		assert.JSONEq(t, `{"score":75}`, text(res))
	})

	t.Run("should return the report with details", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		evaluator.On("Evaluate", mock.Anything, models.EvaluationQuality, ref).
			Return(&models.Report{Kind: models.EvaluationQuality, Score: 45, Language: models.LanguageCSharp}, nil)

		detailed := map[string]any{"details": true}
		for k, v := range args {
			detailed[k] = v
		}
		res := call(t, &mockBranches{}, evaluator, "verify_quality", detailed)

		var report models.Report
		require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
		assert.Equal(t, 45, report.Score)
		assert.Equal(t, models.LanguageCSharp, report.Language)
	})

	t.Run("should pass an explicit sha through", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		pinned := ref
		pinned.SHA = "abc1234"
		evaluator.On("Evaluate", mock.Anything, models.EvaluationCompilation, pinned).
			Return(&models.Report{Score: 100}, nil)

		withSHA := map[string]any{"sha": "abc1234"}
		for k, v := range args {
			withSHA[k] = v
		}
		res := call(t, &mockBranches{}, evaluator, "verify_compilation", withSHA)

		assert.JSONEq(t, `{"score":100}`, text(res))
	})

	t.Run("should name abort-worthy outcomes", func(t *testing.T) {
		evaluator := &mockEvaluator{}
		evaluator.On("Evaluate", mock.Anything, models.EvaluationCompilation, ref).
			Return(nil, domainErrors.ErrNoCommitForAuthor.WithContext("author", "ana"))

		res := call(t, &mockBranches{}, evaluator, "verify_compilation", args)

		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "NO_COMMIT_FOR_AUTHOR")
	})

	t.Run("should require a branch", func(t *testing.T) {
		evaluator := &mockEvaluator{}

		res := call(t, &mockBranches{}, evaluator, "verify_quality", map[string]any{
			"owner": "acme", "repo": "hw", "author": "ana",
		})

		assert.True(t, res.IsError)
		evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject a branch that looks like a git option", func(t *testing.T) {
		evaluator := &mockEvaluator{}

		res := call(t, &mockBranches{}, evaluator, "verify_compilation", map[string]any{
			"owner": "acme", "repo": "hw", "author": "ana", "branch": "--orphan", "sha": "abc1234",
		})

		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "invalid request: branch must not start with '-'")
		evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("boom"), mcp_internal.InternalErrorMessage},
		{"git failure", domainErrors.ErrClone.WithError(errors.New("exit 128")), mcp_internal.InternalErrorMessage},
		{"rate limit", domainErrors.ErrGitHubRateLimit, mcp_internal.InternalErrorMessage},
		{"unsupported language", domainErrors.ErrUnsupportedLanguage, "UNSUPPORTED_LANGUAGE: repository language is not supported"},
		{"missing commit", domainErrors.ErrCommitNotFound, "COMMIT_NOT_FOUND: commit not found in repository history"},
		{"validation", domainErrors.ErrInvalidRequest.WithContext("reason", "owner cannot be empty"), "invalid request: owner cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mcp_internal.PublicMessage(tt.err))
		})
	}
}
