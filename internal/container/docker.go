package container

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/process"
)

// Workspace is where the host repository is mounted inside every container.
const Workspace = "/workspace"

// DaemonFailureExitCode is what `docker run` exits with when the container
// could not be created or started.
const DaemonFailureExitCode = 125

// Runner executes a toolchain command inside a throwaway container with a
// repository mounted at Workspace.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (process.Result, error)
}

// Invocation describes one containerized command.
type Invocation struct {
	RepoPath string   // host directory mounted read-write at Workspace
	Subdir   string   // working directory relative to Workspace, "" for the root
	Image    string   // container image reference
	Command  string   // executable inside the image
	Args     []string // arguments passed to Command
}

type DockerService struct {
	runner  process.Runner
	binary  string
	timeout time.Duration
}

type Option func(*DockerService)

// WithBinary overrides the container CLI, e.g. "podman".
func WithBinary(binary string) Option {
	return func(s *DockerService) {
		s.binary = binary
	}
}

// WithTimeout bounds every invocation. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *DockerService) {
		s.timeout = timeout
	}
}

func NewDockerService(runner process.Runner, opts ...Option) *DockerService {
	s := &DockerService{
		runner: runner,
		binary: "docker",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Runner = (*DockerService)(nil)

// Run validates inv and delegates `docker run --rm -v <repo>:/workspace
// -w /workspace/<subdir> <image> <command> <args...>` to the process runner.
// The result is returned unchanged, except that DaemonFailureExitCode also
// yields errors.ErrExecutionFailed since the command never ran.
func (s *DockerService) Run(ctx context.Context, inv Invocation) (process.Result, error) {
	if strings.TrimSpace(inv.RepoPath) == "" {
		return process.Result{}, errors.ErrEmptyRepositoryPath
	}
	if strings.TrimSpace(inv.Image) == "" {
		return process.Result{}, errors.ErrEmptyImage
	}
	if strings.TrimSpace(inv.Command) == "" {
		return process.Result{}, errors.ErrEmptyCommand
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := BuildArgs(inv)
	logger.Debug(ctx, "running container",
		"image", inv.Image,
		"command", inv.Command,
		"workdir", WorkDir(inv.Subdir))

	result, err := s.runner.Run(ctx, s.binary, args, "")
	if err == nil && result.ExitCode == DaemonFailureExitCode {
		return result, errors.ErrExecutionFailed.
			WithContext("image", inv.Image).
			WithContext("stderr", strings.TrimSpace(result.Stderr))
	}
	return result, err
}

// BuildArgs returns the container CLI arguments for inv.
func BuildArgs(inv Invocation) []string {
	args := []string{
		"run", "--rm",
		"-v", inv.RepoPath + ":" + Workspace,
		"-w", WorkDir(inv.Subdir),
		inv.Image,
		inv.Command,
	}
	return append(args, inv.Args...)
}

// WorkDir maps a host-relative subdirectory onto the container workspace.
func WorkDir(subdir string) string {
	subdir = filepath.ToSlash(subdir)
	if subdir == "" || subdir == "." {
		return Workspace
	}
	return path.Join(Workspace, subdir)
}
