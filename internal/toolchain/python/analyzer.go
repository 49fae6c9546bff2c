package python

import (
	"context"
	"encoding/json"
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
	"github.com/thomas-vilte/repocheck/internal/workerpool"
)

type Analyzer struct {
	runner   container.Runner
	settings toolchain.Settings
}

var _ toolchain.Analyzer = (*Analyzer)(nil)

// pylintMessage is one entry of pylint's JSON reporter.
type pylintMessage struct {
	Type      string `json:"type"`
	Module    string `json:"module"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	MessageID string `json:"message-id"`
}

type fileDiagnostics struct {
	diags []models.Diagnostic
	err   error
}

// Analyze lints every Python file under src/. A file that cannot be linted
// yields an Error diagnostic naming it instead of failing the analysis.
func (a *Analyzer) Analyze(ctx context.Context, repoPath string) ([]models.Diagnostic, error) {
	if strings.TrimSpace(repoPath) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	root := filepath.Join(repoPath, sourceDir)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, domainErrors.ErrNoProjectFile.WithContext("path", root)
	}

	files, err := toolchain.FindFiles(root, sourcePattern)
	if err != nil {
		return nil, domainErrors.ErrInternal.WithError(err)
	}
	if len(files) == 0 {
		logger.Warn(ctx, "no python files found", "path", root)
		return []models.Diagnostic{}, nil
	}

	results, err := workerpool.Map(ctx, a.settings.Workers, files, func(ctx context.Context, file string) fileDiagnostics {
		return a.analyzeFile(ctx, repoPath, file)
	})
	if err != nil {
		return nil, err
	}

	var diags []models.Diagnostic
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		diags = append(diags, r.diags...)
	}
	return toolchain.Dedupe(diags), nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, repoPath, file string) fileDiagnostics {
	subdir, name, err := toolchain.Unit(repoPath, file)
	if err != nil {
		return fileDiagnostics{err: domainErrors.ErrInternal.WithError(err)}
	}
	rel := filepath.Join(subdir, name)

	result, err := a.runner.Run(ctx, container.Invocation{
		RepoPath: repoPath,
		Subdir:   subdir,
		Image:    a.settings.Image,
		Command:  linter,
		Args:     []string{"--output-format=json", name},
	})
	if errors.Is(err, domainErrors.ErrCancelled) {
		return fileDiagnostics{err: err}
	}
	if err != nil {
		logger.Warn(ctx, "pylint failed", "file", rel, "error", err)
		toolchain.RecordFailure(ctx, rel, err)
		return fileDiagnostics{diags: []models.Diagnostic{{
			Message:  fmt.Sprintf("Error analyzing file %s: %v", rel, err),
			Severity: models.SeverityError,
		}}}
	}

	diags, err := ParsePylint(result.Stdout)
	if err != nil {
		return fileDiagnostics{diags: []models.Diagnostic{{
			Message:  fmt.Sprintf("Error deserializing pylint output for file %s: %v", rel, err),
			Severity: models.SeverityError,
		}}}
	}
	return fileDiagnostics{diags: diags}
}

// ParsePylint decodes pylint's JSON report. Entries without a message or
// type, or with a type other than error, warning or info, are dropped.
// Blank output means a clean file.
func ParsePylint(output string) ([]models.Diagnostic, error) {
	if strings.TrimSpace(output) == "" {
		return nil, nil
	}

	var messages []pylintMessage
	if err := json.Unmarshal([]byte(output), &messages); err != nil {
		return nil, err
	}

	var diags []models.Diagnostic
	for _, m := range messages {
		if m.Message == "" || m.Type == "" {
			continue
		}
		severity, ok := models.ParseSeverity(m.Type)
		if !ok {
			continue
		}
		diags = append(diags, models.Diagnostic{Message: m.Message, Severity: severity})
	}
	return diags, nil
}
