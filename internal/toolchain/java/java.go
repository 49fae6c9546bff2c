// Package java checks Maven projects.
package java

import (
	"github.com/thomas-vilte/repocheck/internal/container"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

const (
	DefaultImage = "maven:3.8.6-openjdk-11-slim"

	maven   = "mvn"
	pomFile = "pom.xml"
)

func New(runner container.Runner, settings toolchain.Settings) toolchain.Strategy {
	settings = settings.WithDefaults(DefaultImage)
	return toolchain.Strategy{
		Language: models.LanguageJava,
		Builder:  &Builder{runner: runner, settings: settings},
		Analyzer: &Analyzer{runner: runner, settings: settings},
		Tester:   &Tester{runner: runner, settings: settings},
	}
}
