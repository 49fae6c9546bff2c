package process

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	a := m.Called(ctx, name, args, dir)
	return a.Get(0).(Result), a.Error(1)
}
