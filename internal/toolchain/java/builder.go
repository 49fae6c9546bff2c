package java

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

type Builder struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Builder = (*Builder)(nil)

// Build runs one quiet Maven compile against the pom.xml at the root of
// repoPath.
func (b *Builder) Build(ctx context.Context, repoPath string) (models.BuildResult, error) {
	if strings.TrimSpace(repoPath) == "" {
		return models.BuildResult{}, domainErrors.ErrEmptyRepositoryPath
	}

	if _, err := os.Stat(filepath.Join(repoPath, pomFile)); err != nil {
		logger.Warn(ctx, "no pom.xml found", "path", repoPath)
		return models.BuildResult{FailedUnits: []string{"No pom.xml file found."}},
			domainErrors.ErrNoProjectFile.WithContext("file", pomFile)
	}

	result, err := b.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Image:    b.settings.Image,
		Command:  maven,
		Args:     []string{"compile", "-q"},
	})
	if errors.Is(err, domainErrors.ErrCancelled) {
		return models.BuildResult{}, err
	}
	if err != nil {
		logger.Error(ctx, "maven build errored", err, "path", repoPath)
		toolchain.RecordFailure(ctx, pomFile, err)
		return models.BuildResult{FailedUnits: []string{"An error occurred during the build."}}, nil
	}
	if !result.Succeeded() {
		logger.Warn(ctx, "maven build failed", "exit_code", result.ExitCode)
		return models.BuildResult{
			FailedUnits: []string{fmt.Sprintf("Build failed with exit code: %d", result.ExitCode)},
		}, nil
	}
	return models.BuildResult{Success: true}, nil
}
