package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
)

// MockComposeRunner is a mock implementation of out.ComposeRunner
type MockComposeRunner struct {
	mock.Mock
}

var _ out.ComposeRunner = (*MockComposeRunner)(nil)

// NewMockComposeRunner creates a mock that asserts its expectations on cleanup.
func NewMockComposeRunner(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockComposeRunner {
	m := &MockComposeRunner{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockComposeRunner) Up(ctx context.Context, dir, project string) (*out.CommandResult, error) {
	args := m.Called(ctx, dir, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*out.CommandResult), args.Error(1)
}
