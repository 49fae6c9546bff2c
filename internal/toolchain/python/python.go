// Package python checks Python repositories with the official CPython image.
package python

import (
	"github.com/thomas-vilte/repocheck/internal/container"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

const (
	DefaultImage = "python:3.9-slim"

	interpreter   = "python3"
	linter        = "pylint"
	sourcePattern = "*.py"
	sourceDir     = "src"
)

func New(runner container.Runner, settings toolchain.Settings) toolchain.Strategy {
	settings = settings.WithDefaults(DefaultImage)
	return toolchain.Strategy{
		Language: models.LanguagePython,
		Builder:  &Builder{runner: runner, settings: settings},
		Analyzer: &Analyzer{runner: runner, settings: settings},
		Tester:   &Tester{runner: runner, settings: settings},
	}
}
