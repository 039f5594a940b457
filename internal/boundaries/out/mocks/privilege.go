package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
)

// MockPrivilegeChecker is a mock implementation of out.PrivilegeChecker
type MockPrivilegeChecker struct {
	mock.Mock
}

var _ out.PrivilegeChecker = (*MockPrivilegeChecker)(nil)

// NewMockPrivilegeChecker creates a mock that asserts its expectations on cleanup.
func NewMockPrivilegeChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPrivilegeChecker {
	m := &MockPrivilegeChecker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPrivilegeChecker) IsElevated() bool {
	args := m.Called()
	return args.Bool(0)
}
