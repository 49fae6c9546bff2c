package dotnet

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/regex"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
	"github.com/thomas-vilte/repocheck/internal/workerpool"
)

type Tester struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Tester = (*Tester)(nil)

type projectOutcomes struct {
	outcomes []models.TestOutcome
	err      error
}

// Test runs every test project found under tests/ and parses the per-test
// lines printed after the test host starts.
func (t *Tester) Test(ctx context.Context, repoPath string) ([]models.TestOutcome, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	projects, err := toolchain.FindFiles(filepath.Join(repoPath, testsDir), projectPattern)
	if err != nil {
		return nil, domainErrors.ErrInternal.WithError(err)
	}
	if len(projects) == 0 {
		logger.Warn(ctx, "no test projects found", "path", filepath.Join(repoPath, testsDir))
		return []models.TestOutcome{}, nil
	}

	results, err := workerpool.Map(ctx, t.settings.Workers, projects, func(ctx context.Context, project string) projectOutcomes {
		return t.testProject(ctx, repoPath, project)
	})
	if err != nil {
		return nil, err
	}

	outcomes := []models.TestOutcome{}
	for _, r := range results {
		if errors.Is(r.err, domainErrors.ErrCancelled) {
			return nil, r.err
		}
		outcomes = append(outcomes, r.outcomes...)
	}
	return outcomes, nil
}

func (t *Tester) testProject(ctx context.Context, repoPath, project string) projectOutcomes {
	subdir, name, err := toolchain.Unit(repoPath, project)
	if err != nil {
		toolchain.RecordFailure(ctx, project, err)
		return projectOutcomes{err: err}
	}

	result, err := t.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Subdir:   subdir,
		Image:    t.settings.Image,
		Command:  command,
		Args:     []string{"test", name, "--verbosity", "normal"},
	})
	if err != nil {
		logger.Error(ctx, "test project failed to run", err, "project", project)
		toolchain.RecordFailure(ctx, project, err)
		return projectOutcomes{err: err}
	}
	return projectOutcomes{outcomes: ParseOutcomes(result.Stdout)}
}

// ParseOutcomes reads `dotnet test --verbosity normal` output.
func ParseOutcomes(output string) []models.TestOutcome {
	section := toolchain.SectionAfter(regex.DotNetTestSection, output)
	return toolchain.ParseOutcomes(section, regex.DotNetTestPassed, regex.DotNetTestFailed)
}
