// Package checkout materializes a commit of a GitHub repository on disk.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/process"
)

type Mode string

const (
	// ModeEphemeral clones into a fresh directory per request and removes it
	// on release.
	ModeEphemeral Mode = "ephemeral"
	// ModeShared reuses <work_dir>/<repo>-<branch> across requests and holds
	// a per-path lock until release.
	ModeShared Mode = "shared"

	DefaultRemoteBase = "https://github.com"
)

// ParseMode accepts the configured spelling of a checkout mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEphemeral, "":
		return ModeEphemeral, true
	case ModeShared:
		return ModeShared, true
	default:
		return "", false
	}
}

// Preparer turns a commit reference into a local working copy.
type Preparer interface {
	Prepare(ctx context.Context, ref models.CommitReference) (*Checkout, error)
}

// Checkout is a working copy positioned at one commit. Release must be
// called once the caller is done with Path.
type Checkout struct {
	Path    string
	release func()
}

// NewCheckout wraps an existing directory. release may be nil.
func NewCheckout(path string, release func()) *Checkout {
	return &Checkout{Path: path, release: release}
}

func (c *Checkout) Release() {
	if c != nil && c.release != nil {
		c.release()
	}
}

type Service struct {
	git        process.Runner
	workDir    string
	mode       Mode
	remoteBase string
	locks      *keyedMutex
}

type Option func(*Service)

func WithMode(mode Mode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

// WithRemoteBase changes where repositories are cloned from, e.g. a GitHub
// Enterprise host. The clone URL is <base>/<owner>/<repo>.git.
func WithRemoteBase(base string) Option {
	return func(s *Service) {
		s.remoteBase = strings.TrimRight(base, "/")
	}
}

// NewService prepares checkouts under workDir, running git through runner.
// An empty workDir falls back to the OS temp dir.
func NewService(runner process.Runner, workDir string, opts ...Option) *Service {
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "repocheck")
	}
	s := &Service{
		git:        runner,
		workDir:    workDir,
		mode:       ModeEphemeral,
		remoteBase: DefaultRemoteBase,
		locks:      newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Preparer = (*Service)(nil)

// Prepare clones ref's repository when its directory is missing, checks out
// the branch and then the exact commit.
//
// On failure a shared directory is left as is for inspection; an ephemeral
// one is removed.
func (s *Service) Prepare(ctx context.Context, ref models.CommitReference) (*Checkout, error) {
	if strings.TrimSpace(ref.SHA) == "" {
		return nil, domainErrors.ErrEmptyCommitSHA
	}

	dir := s.Dir(ref)
	co := &Checkout{Path: dir}

	switch s.mode {
	case ModeShared:
		release, err := s.locks.Lock(ctx, dir)
		if err != nil {
			logger.Warn(ctx, "gave up waiting for shared checkout", "path", dir, "error", err)
			return nil, err
		}
		co.release = release
	default:
		co.release = func() {
			if err := os.RemoveAll(dir); err != nil {
				logger.Warn(ctx, "failed to remove checkout", "path", dir, "error", err)
			}
		}
	}

	ctx = logger.With(ctx, "path", dir, "sha", ref.SHA)
	if err := s.materialize(ctx, ref, dir); err != nil {
		co.Release()
		return nil, err
	}

	logger.Debug(ctx, "checkout ready")
	return co, nil
}

// Dir returns the directory ref is materialized in.
func (s *Service) Dir(ref models.CommitReference) string {
	name := fmt.Sprintf("%s-%s", ref.Repo, sanitize(ref.Branch))
	if s.mode != ModeShared {
		name = fmt.Sprintf("%s-%s", name, uuid.NewString())
	}
	return filepath.Join(s.workDir, name)
}

// CloneURL returns the unauthenticated HTTPS clone URL of owner/repo.
func (s *Service) CloneURL(owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s.git", s.remoteBase, owner, repo)
}

func (s *Service) materialize(ctx context.Context, ref models.CommitReference, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return domainErrors.ErrClone.WithError(err)
		}
		logger.Info(ctx, "cloning repository", "owner", ref.Owner, "repo", ref.Repo)
		if _, err := s.run(ctx, filepath.Dir(dir), domainErrors.ErrClone,
			"clone", s.CloneURL(ref.Owner, ref.Repo), dir); err != nil {
			return err
		}
	} else if _, err := s.run(ctx, dir, domainErrors.ErrClone, "fetch", "--all", "--prune"); err != nil {
		if errors.Is(err, domainErrors.ErrCancelled) {
			return err
		}
		logger.Warn(ctx, "fetch failed, using local history", "error", err)
	}

	if _, err := s.run(ctx, dir, domainErrors.ErrCheckoutBranch, "checkout", ref.Branch, "--"); err != nil {
		return err
	}

	sha, err := s.findCommit(ctx, dir, ref.SHA)
	if err != nil {
		return err
	}

	_, err = s.run(ctx, dir, domainErrors.ErrCheckoutCommit, "-c", "advice.detachedHead=false", "checkout", sha)
	return err
}

// findCommit looks sha up in every ref's history, ignoring case.
func (s *Service) findCommit(ctx context.Context, dir, sha string) (string, error) {
	out, err := s.run(ctx, dir, domainErrors.ErrListCommits, "rev-list", "--all")
	if err != nil {
		return "", err
	}

	want := strings.TrimSpace(sha)
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); strings.EqualFold(line, want) {
			return line, nil
		}
	}
	return "", domainErrors.ErrCommitNotFound.WithContext("sha", sha)
}

func (s *Service) run(ctx context.Context, dir string, failure *domainErrors.AppError, args ...string) (string, error) {
	result, err := s.git.Run(ctx, "git", args, dir)
	if errors.Is(err, domainErrors.ErrCancelled) {
		return "", err
	}
	if err != nil {
		return "", failure.WithError(err)
	}
	if !result.Succeeded() {
		return "", failure.
			WithContext("args", strings.Join(args, " ")).
			WithContext("stderr", strings.TrimSpace(result.Stderr))
	}
	return result.Stdout, nil
}

func sanitize(branch string) string {
	return strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(branch)
}
