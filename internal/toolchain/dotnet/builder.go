package dotnet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
	"github.com/thomas-vilte/repocheck/internal/workerpool"
)

const noProjectsMessage = "No project files found."

type Builder struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Builder = (*Builder)(nil)

type unitBuild struct {
	unit string
	ok   bool
	err  error
}

// Build compiles every project file in Release configuration, at most
// settings.Workers at a time. Projects whose bin/ output is at least as new
// as their directory are not rebuilt.
func (b *Builder) Build(ctx context.Context, repoPath string) (models.BuildResult, error) {
	if strings.TrimSpace(repoPath) == "" {
		return models.BuildResult{}, domainErrors.ErrEmptyRepositoryPath
	}

	projects, err := toolchain.FindFiles(repoPath, projectPattern)
	if err != nil {
		return models.BuildResult{}, domainErrors.ErrInternal.WithError(err)
	}
	if len(projects) == 0 {
		logger.Warn(ctx, "no project files found", "path", repoPath)
		return models.BuildResult{FailedUnits: []string{noProjectsMessage}},
			domainErrors.ErrNoProjectFile.WithContext("pattern", projectPattern)
	}

	logger.Info(ctx, "building projects", "count", len(projects), "workers", b.settings.Workers)

	results, err := workerpool.Map(ctx, b.settings.Workers, projects, func(ctx context.Context, project string) unitBuild {
		return b.buildProject(ctx, repoPath, project)
	})
	if err != nil {
		return models.BuildResult{}, err
	}

	build := models.BuildResult{Success: true}
	for _, r := range results {
		if errors.Is(r.err, domainErrors.ErrCancelled) {
			return models.BuildResult{}, r.err
		}
		if !r.ok {
			build.Success = false
			build.FailedUnits = append(build.FailedUnits, r.unit)
		}
	}

	logger.Info(ctx, "build finished", "passed", build.Success, "failed", len(build.FailedUnits))
	return build, nil
}

func (b *Builder) buildProject(ctx context.Context, repoPath, project string) unitBuild {
	subdir, name, err := toolchain.Unit(repoPath, project)
	if err != nil {
		toolchain.RecordFailure(ctx, project, err)
		return unitBuild{unit: project, err: err}
	}
	unit := filepath.Join(subdir, name)

	if CacheValid(project) {
		logger.Debug(ctx, "skipping up-to-date project", "project", unit)
		return unitBuild{unit: unit, ok: true}
	}

	result, err := b.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Subdir:   subdir,
		Image:    b.settings.Image,
		Command:  command,
		Args:     []string{"build", name, "--configuration", "Release", "/nologo", "/v:q"},
	})
	if err != nil {
		logger.Error(ctx, "project build errored", err, "project", unit)
		toolchain.RecordFailure(ctx, unit, err)
		return unitBuild{unit: unit, err: err}
	}
	if !result.Succeeded() {
		logger.Warn(ctx, "project build failed",
			"project", unit,
			"exit_code", result.ExitCode,
			"stderr", strings.TrimSpace(result.Stderr))
		return unitBuild{unit: unit}
	}
	return unitBuild{unit: unit, ok: true}
}

// CacheValid reports whether the project next to projectFile has bin/ and
// obj/ directories and bin/ was written no earlier than the project
// directory itself.
func CacheValid(projectFile string) bool {
	dir := filepath.Dir(projectFile)

	bin, err := os.Stat(filepath.Join(dir, "bin"))
	if err != nil || !bin.IsDir() {
		return false
	}
	obj, err := os.Stat(filepath.Join(dir, "obj"))
	if err != nil || !obj.IsDir() {
		return false
	}
	source, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return !bin.ModTime().Before(source.ModTime())
}
