// Package dotnet builds, analyzes and tests C# repositories with the .NET SDK
// image.
package dotnet

import (
	"github.com/thomas-vilte/repocheck/internal/container"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

const (
	DefaultImage = "mcr.microsoft.com/dotnet/sdk:7.0"

	command        = "dotnet"
	projectPattern = "*.csproj"
	testsDir       = "tests"
)

// New returns the C# strategy running every command through runner.
func New(runner container.Runner, settings toolchain.Settings) toolchain.Strategy {
	settings = settings.WithDefaults(DefaultImage)
	return toolchain.Strategy{
		Language: models.LanguageCSharp,
		Builder:  &Builder{runner: runner, settings: settings},
		Analyzer: &Analyzer{runner: runner, settings: settings},
		Tester:   &Tester{runner: runner, settings: settings},
	}
}
