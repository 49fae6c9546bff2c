package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/models"
)

func translations(t *testing.T) *i18n.Translations {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func TestRenderReport(t *testing.T) {
	trans := translations(t)

	t.Run("should list failed build units", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderReport(&buf, trans, &models.Report{
			Kind:  models.EvaluationCompilation,
			Score: 0,
			Build: &models.BuildResult{FailedUnits: []string{"Broken/Broken.csproj"}},
		})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "compilation score: 0/100")
		assert.Contains(t, buf.String(), "Broken/Broken.csproj")
	})

	t.Run("should list diagnostics with counts", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderReport(&buf, trans, &models.Report{
			Kind:        models.EvaluationQuality,
			Score:       45,
			SHA:         "abc1234",
			Language:    models.LanguageCSharp,
			Diagnostics: []models.Diagnostic{{Message: "CS0103: bad name [App]", Severity: models.SeverityError}},
			Counts:      &models.DiagnosticCounts{Errors: 1},
		})

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "quality score: 45/100")
		assert.Contains(t, out, "Commit: abc1234")
		assert.Contains(t, out, "Errors: 1 | Warnings: 0 | Info: 0")
		assert.Contains(t, out, "CS0103: bad name [App]")
	})

	t.Run("should list test outcomes", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderReport(&buf, trans, &models.Report{
			Kind:   models.EvaluationTests,
			Score:  50,
			Tests:  []models.TestOutcome{{Name: "test_ok", Passed: true, DurationMs: 1.5}, {Name: "test_ko"}},
			Passed: 1,
			Failed: 1,
		})

		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "Passed: 1 | Failed: 1")
		assert.Contains(t, out, "test_ok")
		assert.Contains(t, out, "failed")
		assert.Contains(t, out, "1.5")
	})
}

func TestRenderBranches(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderBranches(&buf, translations(t), []string{"feature/a", "main"}))

	assert.Contains(t, buf.String(), "feature/a")
	assert.Contains(t, buf.String(), "main")
}

func TestHandleAppError(t *testing.T) {
	t.Run("should print type, reason and suggestion", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrGitHubRateLimit.WithContext("reason", "403 from api"), translations(t))

		out := buf.String()
		assert.Contains(t, out, "REMOTE_API")
		assert.Contains(t, out, "403 from api")
		assert.Contains(t, out, "Wait a few minutes")
	})

	t.Run("should print plain errors", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"), nil)

		assert.Contains(t, buf.String(), "boom")
	})
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, Success, ScoreColor(100))
	assert.Equal(t, Warning, ScoreColor(50))
	assert.Equal(t, Error, ScoreColor(0))
}
