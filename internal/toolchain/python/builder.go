package python

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

const noFilesMessage = "No Python files found."

type Builder struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Builder = (*Builder)(nil)

// Build byte-compiles every Python file one after another. A failing file
// does not stop the remaining ones.
func (b *Builder) Build(ctx context.Context, repoPath string) (models.BuildResult, error) {
	if strings.TrimSpace(repoPath) == "" {
		return models.BuildResult{}, domainErrors.ErrEmptyRepositoryPath
	}

	files, err := toolchain.FindFiles(repoPath, sourcePattern)
	if err != nil {
		return models.BuildResult{}, domainErrors.ErrInternal.WithError(err)
	}
	if len(files) == 0 {
		logger.Warn(ctx, "no python files found", "path", repoPath)
		return models.BuildResult{FailedUnits: []string{noFilesMessage}},
			domainErrors.ErrNoProjectFile.WithContext("pattern", sourcePattern)
	}

	build := models.BuildResult{Success: true}
	for _, file := range files {
		subdir, name, err := toolchain.Unit(repoPath, file)
		if err != nil {
			return models.BuildResult{}, domainErrors.ErrInternal.WithError(err)
		}
		unit := filepath.Join(subdir, name)

		result, err := b.runner.Run(ctx, container.Invocation{
			RepoPath: repoPath,
			Subdir:   subdir,
			Image:    b.settings.Image,
			Command:  interpreter,
			Args:     []string{"-m", "py_compile", name},
		})
		switch {
		case errors.Is(err, domainErrors.ErrCancelled):
			return models.BuildResult{}, err
		case err != nil:
			logger.Error(ctx, "python compile errored", err, "file", unit)
			toolchain.RecordFailure(ctx, unit, err)
			build.Success = false
			build.FailedUnits = append(build.FailedUnits, unit)
		case !result.Succeeded():
			logger.Warn(ctx, "python file does not compile",
				"file", unit,
				"exit_code", result.ExitCode,
				"stderr", strings.TrimSpace(result.Stderr))
			build.Success = false
			build.FailedUnits = append(build.FailedUnits, unit)
		}
	}

	logger.Info(ctx, "build finished", "count", len(files), "failed", len(build.FailedUnits))
	return build, nil
}
