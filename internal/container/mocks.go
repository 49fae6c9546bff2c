package container

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/repocheck/internal/process"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, inv Invocation) (process.Result, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(process.Result), args.Error(1)
}
