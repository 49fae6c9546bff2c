package services

import (
	"context"

	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/vcs"
)

// AccountService answers the branch questions asked about one author.
type AccountService struct {
	vcsClient vcs.VCSClient
}

func NewAccountService(vcsClient vcs.VCSClient) *AccountService {
	return &AccountService{vcsClient: vcsClient}
}

// AuthorBranches lists the branches of q's repository holding at least one
// commit by q.Author inside the window. The result is never nil.
func (s *AccountService) AuthorBranches(ctx context.Context, q models.RepositoryQuery) ([]string, error) {
	log := logger.FromContext(ctx)

	log.Info("fetching author branches",
		"owner", q.Owner,
		"repo", q.Repo,
		"author", q.Author,
		"since", q.Since,
		"until", q.Until)

	branches, err := s.vcsClient.ListBranches(ctx, q.Owner, q.Repo)
	if err != nil {
		log.Error("failed to list branches", "error", err)
		return nil, err
	}

	if len(branches) == 0 {
		log.Warn("repository has no branches", "repo", q.Repo)
		return []string{}, nil
	}

	log.Debug("branches found", "count", len(branches))

	authorBranches, err := s.vcsClient.BranchesByAuthor(ctx, q, branches)
	if err != nil {
		return nil, err
	}
	if authorBranches == nil {
		authorBranches = []string{}
	}

	log.Info("author branches resolved", "count", len(authorBranches))
	return authorBranches, nil
}

// CreateAuthorBranch creates student/<author> from base. An empty name with
// a nil error means base could not be read.
func (s *AccountService) CreateAuthorBranch(ctx context.Context, owner, repo, author, base string) (string, error) {
	log := logger.FromContext(ctx)

	branch, err := s.vcsClient.CreateBranchFromBase(ctx, owner, repo, author, base)
	if err != nil {
		log.Error("failed to create branch", "error", err, "repo", repo, "base", base)
		return "", err
	}
	if branch == "" {
		log.Warn("base branch unavailable, nothing created", "repo", repo, "base", base)
		return "", nil
	}

	log.Info("branch created", "repo", repo, "branch", branch)
	return branch, nil
}
