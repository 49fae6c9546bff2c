package java

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

type Analyzer struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Analyzer = (*Analyzer)(nil)

// Analyze compiles the project with verbose errors and turns every output
// line mentioning an error or a warning into a diagnostic. Maven builds the
// whole reactor from the root, so it runs once however many pom.xml files
// exist.
func (a *Analyzer) Analyze(ctx context.Context, repoPath string) ([]models.Diagnostic, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	poms, err := toolchain.FindFiles(repoPath, pomFile)
	if err != nil {
		return nil, domainErrors.ErrInternal.WithError(err)
	}
	if len(poms) == 0 {
		logger.Warn(ctx, "no pom.xml found", "path", repoPath)
		return []models.Diagnostic{}, nil
	}

	result, err := a.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Image:    a.settings.Image,
		Command:  maven,
		Args:     []string{"compile", "-e"},
	})
	if errors.Is(err, domainErrors.ErrCancelled) {
		return nil, err
	}
	if err != nil {
		logger.Error(ctx, "maven analysis errored", err, "path", repoPath)
		toolchain.RecordFailure(ctx, pomFile, err)
		return []models.Diagnostic{}, nil
	}

	return toolchain.Dedupe(ParseDiagnostics(result.Stdout)), nil
}

// ParseDiagnostics classifies raw Maven output lines. "error" wins over
// "warning" when a line contains both.
func ParseDiagnostics(output string) []models.Diagnostic {
	var diags []models.Diagnostic
	for _, line := range toolchain.Lines(output) {
		lower := strings.ToLower(line)

		var severity models.Severity
		switch {
		case strings.Contains(lower, "error"):
			severity = models.SeverityError
		case strings.Contains(lower, "warning"):
			severity = models.SeverityWarning
		default:
			continue
		}

		diags = append(diags, models.Diagnostic{Message: strings.TrimSpace(line), Severity: severity})
	}
	return diags
}
