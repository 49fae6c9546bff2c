package toolchain

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/repocheck/internal/models"
)

type MockBuilder struct {
	mock.Mock
}

func (m *MockBuilder) Build(ctx context.Context, repoPath string) (models.BuildResult, error) {
	args := m.Called(ctx, repoPath)
	return args.Get(0).(models.BuildResult), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, repoPath string) ([]models.Diagnostic, error) {
	args := m.Called(ctx, repoPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Diagnostic), args.Error(1)
}

type MockTester struct {
	mock.Mock
}

func (m *MockTester) Test(ctx context.Context, repoPath string) ([]models.TestOutcome, error) {
	args := m.Called(ctx, repoPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TestOutcome), args.Error(1)
}
