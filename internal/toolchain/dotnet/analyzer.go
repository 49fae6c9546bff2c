package dotnet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/regex"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
	"github.com/thomas-vilte/repocheck/internal/workerpool"
)

type Analyzer struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Analyzer = (*Analyzer)(nil)

type projectDiagnostics struct {
	diags []models.Diagnostic
	err   error
}

// Analyze rebuilds every project without incremental compilation and
// collects the compiler's errors and warnings. A project that cannot be
// analyzed is logged and skipped. No project files yields no diagnostics.
func (a *Analyzer) Analyze(ctx context.Context, repoPath string) ([]models.Diagnostic, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	projects, err := toolchain.FindFiles(repoPath, projectPattern)
	if err != nil {
		return nil, domainErrors.ErrInternal.WithError(err)
	}
	if len(projects) == 0 {
		logger.Warn(ctx, "no project files found", "path", repoPath)
		return []models.Diagnostic{}, nil
	}

	results, err := workerpool.Map(ctx, a.settings.Workers, projects, func(ctx context.Context, project string) projectDiagnostics {
		return a.analyzeProject(ctx, repoPath, project)
	})
	if err != nil {
		return nil, err
	}

	var diags []models.Diagnostic
	for _, r := range results {
		if errors.Is(r.err, domainErrors.ErrCancelled) {
			return nil, r.err
		}
		diags = append(diags, r.diags...)
	}
	return toolchain.Dedupe(diags), nil
}

func (a *Analyzer) analyzeProject(ctx context.Context, repoPath, project string) projectDiagnostics {
	subdir, name, err := toolchain.Unit(repoPath, project)
	if err != nil {
		toolchain.RecordFailure(ctx, project, err)
		return projectDiagnostics{err: err}
	}

	result, err := a.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Subdir:   subdir,
		Image:    a.settings.Image,
		Command:  command,
		Args:     []string{"build", name, "--no-incremental", "/nologo", "/v:q"},
	})
	if err != nil {
		logger.Error(ctx, "project analysis failed", err, "project", project)
		toolchain.RecordFailure(ctx, project, err)
		return projectDiagnostics{err: err}
	}
	return projectDiagnostics{diags: ParseDiagnostics(result.Stdout)}
}

// ParseDiagnostics extracts compiler diagnostics from build output as
// "<code>: <message> [<project>]".
func ParseDiagnostics(output string) []models.Diagnostic {
	var diags []models.Diagnostic
	for _, line := range toolchain.Lines(output) {
		m := regex.DotNetDiagnostic.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		severity := models.SeverityWarning
		if strings.EqualFold(regex.Named(regex.DotNetDiagnostic, m, "severity"), "error") {
			severity = models.SeverityError
		}

		diags = append(diags, models.Diagnostic{
			Message: fmt.Sprintf("%s: %s [%s]",
				regex.Named(regex.DotNetDiagnostic, m, "code"),
				regex.Named(regex.DotNetDiagnostic, m, "message"),
				regex.Named(regex.DotNetDiagnostic, m, "project")),
			Severity: severity,
		})
	}
	return diags
}
