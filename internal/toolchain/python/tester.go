package python

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/regex"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

type Tester struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Tester = (*Tester)(nil)

// Test runs unittest discovery from the repository root. A run that cannot
// be started yields no outcomes.
func (t *Tester) Test(ctx context.Context, repoPath string) ([]models.TestOutcome, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	result, err := t.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Image:    t.settings.Image,
		Command:  interpreter,
		Args:     []string{"-m", "unittest", "discover", "-v"},
	})
	if errors.Is(err, domainErrors.ErrCancelled) {
		return nil, err
	}
	if err != nil {
		logger.Error(ctx, "unittest run failed", err, "path", repoPath)
		toolchain.RecordFailure(ctx, ".", err)
		return []models.TestOutcome{}, nil
	}

	outcomes := ParseOutcomes(result.Stdout + "\n" + result.Stderr)
	if outcomes == nil {
		outcomes = []models.TestOutcome{}
	}
	return outcomes, nil
}

// ParseOutcomes reads `python -m unittest discover -v` output. unittest
// reports on stderr, so callers pass both streams.
func ParseOutcomes(output string) []models.TestOutcome {
	return toolchain.ParseOutcomes(output, regex.PythonTestPassed, regex.PythonTestFailed)
}
