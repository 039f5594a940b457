package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
)

// MockContainerRuntime is a mock implementation of out.ContainerRuntime
type MockContainerRuntime struct {
	mock.Mock
}

var _ out.ContainerRuntime = (*MockContainerRuntime)(nil)

// NewMockContainerRuntime creates a mock that asserts its expectations on cleanup.
func NewMockContainerRuntime(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockContainerRuntime {
	m := &MockContainerRuntime{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContainerRuntime) ListContainers(ctx context.Context) ([]*domain.Container, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Container), args.Error(1)
}

// Network operations
func (m *MockContainerRuntime) ListNetworks(ctx context.Context) ([]*domain.NetworkInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.NetworkInfo), args.Error(1)
}

func (m *MockContainerRuntime) CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error) {
	args := m.Called(ctx, name, labels)
	return args.String(0), args.Error(1)
}

func (m *MockContainerRuntime) InspectNetwork(ctx context.Context, name string) (*domain.NetworkInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetworkInfo), args.Error(1)
}

// Runtime information
func (m *MockContainerRuntime) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContainerRuntime) Version(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
