package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
)

// MockFileStore is a mock implementation of out.FileStore
type MockFileStore struct {
	mock.Mock
}

var _ out.FileStore = (*MockFileStore)(nil)

// NewMockFileStore creates a mock that asserts its expectations on cleanup.
func NewMockFileStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFileStore {
	m := &MockFileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFileStore) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStore) WriteFile(path string, data []byte) error {
	args := m.Called(path, data)
	return args.Error(0)
}

func (m *MockFileStore) EnsureDir(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
