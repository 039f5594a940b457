package discovery

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

func testContext() context.Context {
	return logging.WithCtx(context.Background(), zerolog.Nop())
}

func TestService_Discover(t *testing.T) {
	runtime := mocks.NewMockContainerRuntime(t)
	svc := NewService(runtime, Options{
		FilterName: "internal-proxy",
		Resolve:    DefaultResolveOptions(),
	})

	runtime.On("ListContainers", mock.Anything).Return([]*domain.Container{
		{ID: "c1", Names: []string{"/web-internal-proxy-1"}},
		{ID: "c2", Names: []string{"/db-1"}},
		{ID: "c3", Names: []string{"/api-internal-proxy-1"}, Labels: map[string]string{"hostname": "api.test"}},
	}, nil)

	records, err := svc.Discover(testContext())

	require.NoError(t, err)
	assert.Equal(t, []domain.ContainerRecord{
		{ID: "c1", ShortName: "web", FullName: "web-internal-proxy-1", Hostname: "web.localhost"},
		{ID: "c3", ShortName: "api", FullName: "api-internal-proxy-1", Hostname: "api.test"},
	}, records)
}

func TestService_Discover_RuntimeError(t *testing.T) {
	runtime := mocks.NewMockContainerRuntime(t)
	svc := NewService(runtime, Options{FilterName: "internal-proxy"})

	runtime.On("ListContainers", mock.Anything).Return(nil, errors.New("daemon unreachable"))

	records, err := svc.Discover(testContext())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "daemon unreachable")
	assert.Nil(t, records)
}

func TestFilter(t *testing.T) {
	containers := []*domain.Container{
		{ID: "a", Names: []string{"/other", "/proxy-alias"}},
		{ID: "b", Names: []string{"/plain"}},
		{ID: "c"},
		nil,
	}

	filtered := Filter(containers, "proxy")

	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)
}
