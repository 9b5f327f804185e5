package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockManager is a testify mock of packages.Manager.
type MockManager struct {
	mock.Mock
}

func (m *MockManager) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockManager) Installed(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockManager) Install(ctx context.Context, names []string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}
