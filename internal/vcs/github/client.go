package github

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/vcs"
	"github.com/thomas-vilte/repocheck/internal/workerpool"
	"golang.org/x/oauth2"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const (
	userAgent    = "RepoAnalysis API v1/1.0"
	branchPrefix = "student/"
	pageSize     = 100
)

type RepositoriesService interface {
	ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	GetBranch(ctx context.Context, owner, repo, branch string, maxRedirects int) (*github.Branch, *github.Response, error)
}

type GitService interface {
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
}

type GitHubClient struct {
	repoService RepositoriesService
	gitService  GitService
	workers     int
}

// NewGitHubClient authenticates with token when set. A non-empty baseURL
// targets a GitHub Enterprise server.
func NewGitHubClient(token, baseURL string) (*GitHubClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, domainErrors.ErrInvalidConfig.
				WithError(err).
				WithContext("github_base_url", baseURL)
		}
	}
	client.UserAgent = userAgent

	return NewGitHubClientWithServices(client.Repositories, client.Git), nil
}

func NewGitHubClientWithServices(repoService RepositoriesService, gitService GitService) *GitHubClient {
	return &GitHubClient{
		repoService: repoService,
		gitService:  gitService,
		workers:     workerpool.DefaultWorkers,
	}
}

// SetWorkers bounds the concurrent branch lookups of BranchesByAuthor.
func (ghc *GitHubClient) SetWorkers(n int) {
	if n > 0 {
		ghc.workers = n
	}
}

func (ghc *GitHubClient) ListBranches(ctx context.Context, owner, repo string) ([]string, error) {
	log := logger.FromContext(ctx)

	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: pageSize}}
	var names []string
	for {
		branches, resp, err := ghc.repoService.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, mapError(ctx, resp, err, "list branches", owner, repo)
		}
		for _, b := range branches {
			names = append(names, b.GetName())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("github branches listed", "owner", owner, "repo", repo, "count", len(names))
	return names, nil
}

func (ghc *GitHubClient) BranchesByAuthor(ctx context.Context, q models.RepositoryQuery, candidates []string) ([]string, error) {
	log := logger.FromContext(ctx)

	matches, err := workerpool.Map(ctx, ghc.workers, candidates, func(ctx context.Context, branch string) bool {
		opts := &github.CommitsListOptions{
			SHA:         branch,
			Author:      q.Author,
			ListOptions: github.ListOptions{PerPage: 1},
		}
		if q.Since != nil {
			opts.Since = *q.Since
		}
		if q.Until != nil {
			opts.Until = *q.Until
		}

		commits, _, err := ghc.repoService.ListCommits(ctx, q.Owner, q.Repo, opts)
		if err != nil {
			log.Warn("skipping branch, commit lookup failed",
				"branch", branch,
				"author", q.Author,
				"error", err)
			return false
		}
		return len(commits) > 0
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	result := []string{}
	for i, ok := range matches {
		if !ok {
			continue
		}
		if _, dup := seen[candidates[i]]; dup {
			continue
		}
		seen[candidates[i]] = struct{}{}
		result = append(result, candidates[i])
	}
	sort.Strings(result)

	log.Debug("branches by author resolved",
		"author", q.Author,
		"candidates", len(candidates),
		"count", len(result))
	return result, nil
}

func (ghc *GitHubClient) LastCommitByAuthor(ctx context.Context, owner, repo, branch, author string) (string, error) {
	commits, resp, err := ghc.repoService.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		SHA:         branch,
		Author:      author,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", mapError(ctx, resp, err, "list commits", owner, repo)
	}
	if len(commits) == 0 {
		return "", nil
	}
	return commits[0].GetSHA(), nil
}

func (ghc *GitHubClient) CreateBranchFromBase(ctx context.Context, owner, repo, author, base string) (string, error) {
	log := logger.FromContext(ctx)

	branch, _, err := ghc.repoService.GetBranch(ctx, owner, repo, base, 1)
	if err != nil || branch.GetCommit().GetSHA() == "" {
		log.Warn("base branch unavailable",
			"owner", owner,
			"repo", repo,
			"base", base,
			"error", err)
		return "", nil
	}

	name := BranchName(author)
	_, resp, err := ghc.gitService.CreateRef(ctx, owner, repo, github.CreateRef{
		Ref: "refs/heads/" + name,
		SHA: branch.GetCommit().GetSHA(),
	})
	if err != nil {
		return "", mapError(ctx, resp, err, "create branch", owner, repo)
	}

	log.Info("branch created", "branch", name, "base", base, "sha", branch.GetCommit().GetSHA())
	return name, nil
}

// BranchName is the fixed branch naming policy for an author's work.
func BranchName(author string) string {
	return branchPrefix + strings.TrimSpace(author)
}

func mapError(ctx context.Context, resp *github.Response, err error, operation, owner, repo string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domainErrors.ErrCancelled.WithError(ctxErr)
	}

	full := fmt.Sprintf("%s/%s", owner, repo)
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithError(err).
				WithContext("operation", operation)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", full)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("operation", operation).
				WithContext("repo", full)
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithError(err).
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		}
	}

	logger.Error(ctx, "github request failed", err, "operation", operation, "repo", full)
	return domainErrors.ErrRemoteAPI.
		WithError(err).
		WithContext("operation", operation).
		WithContext("repo", full)
}
