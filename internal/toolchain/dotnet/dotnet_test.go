package dotnet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/repocheck/internal/container"
	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/process"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("<Project />"), 0o644))
	}
}

func invocation(args ...string) interface{} {
	return mock.MatchedBy(func(inv container.Invocation) bool {
		if len(inv.Args) < len(args) {
			return false
		}
		for i, a := range args {
			if inv.Args[i] != a {
				return false
			}
		}
		return true
	})
}

func TestNew(t *testing.T) {
	s := New(&container.MockRunner{}, toolchain.Settings{})

	assert.Equal(t, models.LanguageCSharp, s.Language)
	assert.Equal(t, DefaultImage, s.Builder.(*Builder).settings.Image)
	assert.Equal(t, 4, s.Builder.(*Builder).settings.Workers)
}

func TestBuilder_Build(t *testing.T) {
	t.Run("should report the projects that failed", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "src/Api/Api.csproj", "src/Core/Core.csproj")

		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, mock.MatchedBy(func(inv container.Invocation) bool {
			return inv.Subdir == filepath.Join("src", "Api")
		})).Return(process.Result{ExitCode: 0}, nil)
		runner.On("Run", mock.Anything, mock.MatchedBy(func(inv container.Invocation) bool {
			return inv.Subdir == filepath.Join("src", "Core")
		})).Return(process.Result{ExitCode: 1, Stdout: "error CS1002: ; expected"}, nil)

		result, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), repo)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, []string{filepath.Join("src", "Core", "Core.csproj")}, result.FailedUnits)
		runner.AssertNumberOfCalls(t, "Run", 2)
	})

	t.Run("should pass Release build arguments", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "App.csproj")

		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, container.Invocation{
			RepoPath: repo,
			Subdir:   ".",
			Image:    DefaultImage,
			Command:  "dotnet",
			Args:     []string{"build", "App.csproj", "--configuration", "Release", "/nologo", "/v:q"},
		}).Return(process.Result{}, nil)

		result, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), repo)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.FailedUnits)
		runner.AssertExpectations(t)
	})

	t.Run("should skip projects with fresh build output", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "App/App.csproj")
		require.NoError(t, os.MkdirAll(filepath.Join(repo, "App", "bin"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(repo, "App", "obj"), 0o755))
		past := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(repo, "App"), past, past))

		runner := &container.MockRunner{}

		result, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), repo)

		require.NoError(t, err)
		assert.True(t, result.Success)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("should fail without project files", func(t *testing.T) {
		runner := &container.MockRunner{}

		result, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), t.TempDir())

		assert.ErrorIs(t, err, errors.ErrNoProjectFile)
		assert.False(t, result.Success)
		assert.Equal(t, []string{"No project files found."}, result.FailedUnits)
	})

	t.Run("should propagate cancellation", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "App.csproj")

		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, mock.Anything).Return(process.Result{}, errors.ErrCancelled)

		_, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), repo)

		assert.ErrorIs(t, err, errors.ErrCancelled)
	})

	t.Run("should count a runner error as a failed unit", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "App.csproj")

		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, mock.Anything).Return(process.Result{}, errors.ErrExecutionFailed)

		result, err := New(runner, toolchain.Settings{}).Builder.Build(context.Background(), repo)

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, []string{"App.csproj"}, result.FailedUnits)
	})
}

func TestCacheValid(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, "App/App.csproj")
	project := filepath.Join(repo, "App", "App.csproj")

	assert.False(t, CacheValid(project))

	require.NoError(t, os.MkdirAll(filepath.Join(repo, "App", "bin"), 0o755))
	assert.False(t, CacheValid(project))

	require.NoError(t, os.MkdirAll(filepath.Join(repo, "App", "obj"), 0o755))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(repo, "App"), future, future))
	assert.False(t, CacheValid(project))

	require.NoError(t, os.Chtimes(filepath.Join(repo, "App", "bin"), future, future))
	assert.True(t, CacheValid(project))
}

func TestBuilder_BuildSkipsFreshOutputOnRerun(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, "src/App/App.csproj")
	projectDir := filepath.Join(repo, "src", "App")

	runner := &container.MockRunner{}
	runner.On("Run", mock.Anything, invocation("build", "App.csproj")).
		Run(func(mock.Arguments) {
			for _, dir := range []string{"obj", "bin", filepath.Join("bin", "Release")} {
				require.NoError(t, os.MkdirAll(filepath.Join(projectDir, dir), 0o755))
			}
		}).
		Return(process.Result{}, nil)

	builder := New(runner, toolchain.Settings{}).Builder

	first, err := builder.Build(context.Background(), repo)
	require.NoError(t, err)
	assert.True(t, first.Success)
	runner.AssertNumberOfCalls(t, "Run", 1)

	second, err := builder.Build(context.Background(), repo)
	require.NoError(t, err)
	assert.True(t, second.Success)
	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestBuilder_BuildRecordsProjectsThatCouldNotRun(t *testing.T) {
	repo := t.TempDir()
	writeFiles(t, repo, "src/App/App.csproj")

	runner := &container.MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(process.Result{}, errors.ErrExecutionFailed)

	ctx, failures := toolchain.TrackFailures(context.Background())
	result, err := New(runner, toolchain.Settings{}).Builder.Build(ctx, repo)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{filepath.Join("src", "App", "App.csproj")}, result.FailedUnits)
	assert.Equal(t, []string{filepath.Join("src", "App", "App.csproj")}, failures.Units())
}

func TestParseDiagnostics(t *testing.T) {
	output := `
  Determining projects to restore...
/workspace/src/Program.cs(3,1): error CS0103: The name 'x' does not exist [/workspace/src/App.csproj]
/workspace/src/Program.cs(9,5): warning CS0168: The variable 'e' is declared but never used [/workspace/src/App.csproj]
Build FAILED.
`
	assert.Equal(t, []models.Diagnostic{
		{Message: "CS0103: The name 'x' does not exist [/workspace/src/App.csproj]", Severity: models.SeverityError},
		{Message: "CS0168: The variable 'e' is declared but never used [/workspace/src/App.csproj]", Severity: models.SeverityWarning},
	}, ParseDiagnostics(output))
	assert.Empty(t, ParseDiagnostics("Build succeeded."))
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Run("should merge and dedupe diagnostics across projects", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "a/A.csproj", "b/B.csproj")

		out := "error CS0103: missing name [/workspace/Shared.csproj]\nwarning CS0168: unused [/workspace/Shared.csproj]"
		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, invocation("build", "A.csproj", "--no-incremental")).
			Return(process.Result{ExitCode: 1, Stdout: out}, nil)
		runner.On("Run", mock.Anything, invocation("build", "B.csproj", "--no-incremental")).
			Return(process.Result{ExitCode: 1, Stdout: out}, nil)

		diags, err := New(runner, toolchain.Settings{}).Analyzer.Analyze(context.Background(), repo)

		require.NoError(t, err)
		assert.Len(t, diags, 2)
		assert.Equal(t, models.DiagnosticCounts{Errors: 1, Warnings: 1}, models.CountDiagnostics(diags))
	})

	t.Run("should skip a project that errors", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "a/A.csproj", "b/B.csproj")

		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, invocation("build", "A.csproj")).
			Return(process.Result{}, errors.ErrExecutionFailed)
		runner.On("Run", mock.Anything, invocation("build", "B.csproj")).
			Return(process.Result{Stdout: "warning CS0168: unused [/workspace/b/B.csproj]"}, nil)

		diags, err := New(runner, toolchain.Settings{}).Analyzer.Analyze(context.Background(), repo)

		require.NoError(t, err)
		assert.Equal(t, []models.Diagnostic{
			{Message: "CS0168: unused [/workspace/b/B.csproj]", Severity: models.SeverityWarning},
		}, diags)
	})

	t.Run("should return nothing without projects", func(t *testing.T) {
		diags, err := New(&container.MockRunner{}, toolchain.Settings{}).Analyzer.Analyze(context.Background(), t.TempDir())

		require.NoError(t, err)
		assert.Empty(t, diags)
	})
}

func TestTester_Test(t *testing.T) {
	t.Run("should parse outcomes of every test project", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "src/App/App.csproj", "tests/App.Tests/App.Tests.csproj")

		output := `Build succeeded.
Starting test execution, please wait...
A total of 1 test files matched the specified pattern.
  Passed App.Tests.CalcTests.Adds [< 1 ms]
  Failed App.Tests.CalcTests.Divides [12 ms]
  Error Message:
   Assert.Equal() Failure
Total tests: 2
`
		runner := &container.MockRunner{}
		runner.On("Run", mock.Anything, container.Invocation{
			RepoPath: repo,
			Subdir:   filepath.Join("tests", "App.Tests"),
			Image:    DefaultImage,
			Command:  "dotnet",
			Args:     []string{"test", "App.Tests.csproj", "--verbosity", "normal"},
		}).Return(process.Result{ExitCode: 1, Stdout: output}, nil)

		outcomes, err := New(runner, toolchain.Settings{}).Tester.Test(context.Background(), repo)

		require.NoError(t, err)
		assert.Equal(t, []models.TestOutcome{
			{Name: "App.Tests.CalcTests.Adds", Passed: true, DurationMs: 1},
			{Name: "App.Tests.CalcTests.Divides", Passed: false, DurationMs: 12},
		}, outcomes)
		runner.AssertExpectations(t)
	})

	t.Run("should ignore lines before the test host starts", func(t *testing.T) {
		assert.Empty(t, ParseOutcomes("  Passed Early.Test [1 ms]\nBuild succeeded."))
	})

	t.Run("should return nothing without a tests directory", func(t *testing.T) {
		repo := t.TempDir()
		writeFiles(t, repo, "src/App/App.csproj")

		outcomes, err := New(&container.MockRunner{}, toolchain.Settings{}).Tester.Test(context.Background(), repo)

		require.NoError(t, err)
		assert.Empty(t, outcomes)
	})
}
