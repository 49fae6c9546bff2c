// Package mcp exposes the branch and evaluation operations as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/version"
)

// BranchService answers the author branch questions.
type BranchService interface {
	AuthorBranches(ctx context.Context, q models.RepositoryQuery) ([]string, error)
	CreateAuthorBranch(ctx context.Context, owner, repo, author, base string) (string, error)
}

// Evaluator scores one commit.
type Evaluator interface {
	Evaluate(ctx context.Context, kind models.EvaluationKind, ref models.CommitReference, progress func(models.Progress)) (*models.Report, error)
}

// NewMCPServer registers every tool without starting the transport.
func NewMCPServer(branches BranchService, evaluator Evaluator) *server.MCPServer {
	s := server.NewMCPServer(
		"repocheck",
		version.Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		branches:  branches,
		evaluator: evaluator,
	}

	s.AddTool(mcp.NewTool("get_author_branches",
		mcp.WithDescription("List the branches of a GitHub repository that hold at least one commit by an author."),
		mcp.WithString("owner", mcp.Description("Repository owner."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
		mcp.WithString("author", mcp.Description("GitHub login of the author."), mcp.Required()),
		mcp.WithString("since", mcp.Description("Only commits after this date (RFC 3339 or YYYY-MM-DD).")),
		mcp.WithString("until", mcp.Description("Only commits before this date (RFC 3339 or YYYY-MM-DD).")),
	), h.handleGetAuthorBranches)

	s.AddTool(mcp.NewTool("create_author_branch",
		mcp.WithDescription("Create the branch student/<author> at the head of a base branch."),
		mcp.WithString("owner", mcp.Description("Repository owner."), mcp.Required()),
		mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
		mcp.WithString("author", mcp.Description("GitHub login of the author."), mcp.Required()),
		mcp.WithString("base", mcp.Description("Branch the new branch starts from."), mcp.Required()),
	), h.handleCreateAuthorBranch)

	verify := []struct {
		name string
		desc string
		kind models.EvaluationKind
	}{
		{"verify_compilation", "Score 0 or 100 depending on whether the author's latest commit compiles.", models.EvaluationCompilation},
		{"verify_quality", "Score 0-100 from the static analysis findings of the author's latest commit.", models.EvaluationQuality},
		{"verify_tests", "Score 0-100 as the share of passing tests at the author's latest commit.", models.EvaluationTests},
	}
	for _, v := range verify {
		s.AddTool(mcp.NewTool(v.name,
			mcp.WithDescription(v.desc),
			mcp.WithString("owner", mcp.Description("Repository owner."), mcp.Required()),
			mcp.WithString("repo", mcp.Description("Repository name."), mcp.Required()),
			mcp.WithString("branch", mcp.Description("Branch holding the author's work."), mcp.Required()),
			mcp.WithString("author", mcp.Description("GitHub login of the author."), mcp.Required()),
			mcp.WithString("sha", mcp.Description("Evaluate this commit instead of the author's latest.")),
			mcp.WithBoolean("details", mcp.Description("Return the full report instead of only the score.")),
		), h.verify(v.kind))
	}

	return s
}

// StartMCPServer serves the tools on stdin/stdout until the client disconnects.
func StartMCPServer(_ context.Context, branches BranchService, evaluator Evaluator) error {
	s := NewMCPServer(branches, evaluator)
	return server.ServeStdio(s)
}
