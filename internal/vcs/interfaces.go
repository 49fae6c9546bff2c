package vcs

import (
	"context"

	"github.com/thomas-vilte/repocheck/internal/models"
)

// VCSClient defines the branch and commit lookups needed to pick the commit
// under evaluation.
type VCSClient interface {
	// ListBranches gets every branch name of the repository.
	ListBranches(ctx context.Context, owner, repo string) ([]string, error)
	// BranchesByAuthor keeps the branches of candidates with at least one
	// commit by q.Author inside the optional [q.Since, q.Until] window.
	BranchesByAuthor(ctx context.Context, q models.RepositoryQuery, candidates []string) ([]string, error)
	// LastCommitByAuthor gets the newest commit SHA by author on branch, or
	// "" when there is none.
	LastCommitByAuthor(ctx context.Context, owner, repo, branch, author string) (string, error)
	// CreateBranchFromBase creates student/<author> at the head of base and
	// returns its name, or "" when base cannot be read.
	CreateBranchFromBase(ctx context.Context, owner, repo, author, base string) (string, error)
}
