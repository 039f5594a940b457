package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out/mocks"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

const manifestPath = "/srv/proxy/docker-compose.yml"

func testContext() context.Context {
	return logging.WithCtx(context.Background(), zerolog.Nop())
}

func TestSynchronizer_Apply(t *testing.T) {
	files := mocks.NewMockFileStore(t)
	alloc, policy := scenario()
	want, err := SyncPorts([]byte(composeDoc), "nginx-proxy", alloc, policy)
	require.NoError(t, err)

	files.On("ReadFile", manifestPath).Return([]byte(composeDoc), nil)
	files.On("WriteFile", manifestPath, want).Return(nil)

	changed, err := NewSynchronizer(files, "nginx-proxy").Apply(testContext(), manifestPath, alloc, policy)

	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSynchronizer_Apply_Unchanged(t *testing.T) {
	files := mocks.NewMockFileStore(t)
	alloc, policy := scenario()
	current, err := SyncPorts([]byte(composeDoc), "nginx-proxy", alloc, policy)
	require.NoError(t, err)

	files.On("ReadFile", manifestPath).Return(current, nil)

	changed, err := NewSynchronizer(files, "nginx-proxy").Apply(testContext(), manifestPath, alloc, policy)

	require.NoError(t, err)
	assert.False(t, changed)
	files.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything)
}

func TestSynchronizer_Apply_MissingServiceLeavesFile(t *testing.T) {
	files := mocks.NewMockFileStore(t)
	alloc, policy := scenario()
	files.On("ReadFile", manifestPath).Return([]byte(composeDoc), nil)

	_, err := NewSynchronizer(files, "edge").Apply(testContext(), manifestPath, alloc, policy)

	assert.ErrorIs(t, err, domain.ErrManifestServiceNotFound)
	files.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything)
}

func TestSynchronizer_Apply_ReadError(t *testing.T) {
	files := mocks.NewMockFileStore(t)
	alloc, policy := scenario()
	files.On("ReadFile", manifestPath).Return(nil, errors.New("no such file"))

	_, err := NewSynchronizer(files, "nginx-proxy").Apply(testContext(), manifestPath, alloc, policy)

	assert.ErrorContains(t, err, "failed to read manifest")
}
