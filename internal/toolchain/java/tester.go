package java

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

// Test runs `mvn test` at the repository root.
func (t *Tester) Test(ctx context.Context, repoPath string) ([]models.TestOutcome, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	result, err := t.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Image:    t.settings.Image,
		Command:  maven,
		Args:     []string{"test"},
	})
	if errors.Is(err, domainErrors.ErrCancelled) {
		return nil, err
	}
	if err != nil {
		logger.Error(ctx, "maven test run failed", err, "path", repoPath)
		toolchain.RecordFailure(ctx, pomFile, err)
		return []models.TestOutcome{}, nil
	}

	outcomes := ParseOutcomes(result.Stdout)
	if outcomes == nil {
		outcomes = []models.TestOutcome{}
	}
	return outcomes, nil
}

// ParseOutcomes reads the surefire report that follows the TESTS banner.
func ParseOutcomes(output string) []models.TestOutcome {
	section := toolchain.SectionAfter(regex.JavaTestSection, output)
	return toolchain.ParseOutcomes(section, regex.JavaTestPassed, regex.JavaTestFailed)
}
