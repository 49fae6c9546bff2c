package language

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
)

var extensions = map[string]models.Language{
	".cs":     models.LanguageCSharp,
	".csproj": models.LanguageCSharp,
	".py":     models.LanguagePython,
	".java":   models.LanguageJava,
}

// Detector classifies a checkout by the most frequent source extension.
type Detector interface {
	Detect(ctx context.Context, repoPath string) (models.Language, error)
}

type ExtensionDetector struct{}

func NewExtensionDetector() *ExtensionDetector {
	return &ExtensionDetector{}
}

var _ Detector = (*ExtensionDetector)(nil)

// Detect walks repoPath and returns the language with the highest file count,
// or models.LanguageUnknown when no file has a known extension.
//
// Ties go to the language whose first file appears earliest in lexical walk
// order. Callers should not rely on which language wins a genuine tie.
func (d *ExtensionDetector) Detect(ctx context.Context, repoPath string) (models.Language, error) {
	counts := make(map[models.Language]int)
	var order []models.Language

	err := filepath.WalkDir(repoPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.ErrCancelled.WithError(ctxErr)
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := extensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			return nil
		}
		if counts[lang] == 0 {
			order = append(order, lang)
		}
		counts[lang]++
		return nil
	})
	if err != nil {
		return models.LanguageUnknown, err
	}

	best := models.LanguageUnknown
	bestCount := 0
	for _, lang := range order {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}

	logger.Debug(ctx, "language detected", "language", best, "count", bestCount, "path", repoPath)
	return best, nil
}
