package docker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

func newTestRuntime(t *testing.T, handler http.HandlerFunc) *Runtime {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	host := strings.TrimPrefix(server.URL, "http://")
	cli, err := client.NewClientWithOpts(client.WithHost("tcp://"+host), client.WithVersion("1.41"), client.WithHTTPClient(server.Client()))
	require.NoError(t, err, "failed to create docker client")

	return NewRuntimeWithClient(cli)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestRuntime_ListContainers(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1.41/containers/json", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("all"))
		writeJSON(w, http.StatusOK, `[
			{"Id": "c1", "Names": ["/proj-web-1"], "Labels": {"hostname": "shop.test"}},
			{"Id": "c2", "Names": ["/proj-api-1"], "Labels": {}}
		]`)
	})

	containers, err := runtime.ListContainers(context.Background())

	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "c1", containers[0].ID)
	assert.Equal(t, []string{"/proj-web-1"}, containers[0].Names)
	assert.Equal(t, "shop.test", containers[0].Labels["hostname"])
	assert.Equal(t, "proj-api-1", containers[1].PrimaryName())
}

func TestRuntime_ListContainers_Error(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message": "boom"}`)
	})

	_, err := runtime.ListContainers(context.Background())

	assert.ErrorContains(t, err, "failed to list containers")
}

func TestRuntime_ListNetworks(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.41/networks", r.URL.Path)
		writeJSON(w, http.StatusOK, `[
			{"Id": "n1", "Name": "bridge", "Driver": "bridge"},
			{"Id": "n2", "Name": "docker-local-proxy", "Driver": "bridge", "Labels": {"docker-local-proxy.managed": "true"}}
		]`)
	})

	networks, err := runtime.ListNetworks(context.Background())

	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, "docker-local-proxy", networks[1].Name)
	assert.Equal(t, "true", networks[1].Labels[domain.LabelManaged])
}

func TestRuntime_CreateNetwork(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1.41/networks/create", r.URL.Path)

		var body struct {
			Name   string
			Driver string
			Labels map[string]string
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "docker-local-proxy", body.Name)
		assert.Equal(t, "bridge", body.Driver)
		assert.Equal(t, map[string]string{domain.LabelManaged: "true"}, body.Labels)

		writeJSON(w, http.StatusCreated, `{"Id": "net-123", "Warning": ""}`)
	})

	id, err := runtime.CreateNetwork(context.Background(), "docker-local-proxy", map[string]string{domain.LabelManaged: "true"})

	require.NoError(t, err)
	assert.Equal(t, "net-123", id)
}

func TestRuntime_InspectNetwork(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1.41/networks/docker-local-proxy", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"Id": "n2",
			"Name": "docker-local-proxy",
			"Driver": "bridge",
			"Containers": {
				"c2": {"Name": "proj-api-1"},
				"c1": {"Name": "proj-web-1"}
			}
		}`)
	})

	info, err := runtime.InspectNetwork(context.Background(), "docker-local-proxy")

	require.NoError(t, err)
	assert.Equal(t, "n2", info.ID)
	assert.Equal(t, []string{"c1", "c2"}, info.Containers)
	assert.True(t, info.HasMember("c2"))
	assert.False(t, info.HasMember("c3"))
}

func TestRuntime_InspectNetwork_NotFound(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message": "network docker-local-proxy not found"}`)
	})

	_, err := runtime.InspectNetwork(context.Background(), "docker-local-proxy")

	assert.ErrorIs(t, err, domain.ErrNetworkNotFound)
}

func TestRuntime_Version(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.41/version", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"Version": "28.0.1", "ApiVersion": "1.48"}`)
	})

	version, err := runtime.Version(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "28.0.1", version)
}

func TestRuntime_Ping(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/_ping"), r.URL.Path)
		w.Header().Set("API-Version", "1.41")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	assert.NoError(t, runtime.Ping(context.Background()))
}

func TestRuntime_Ping_Error(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.ErrorContains(t, runtime.Ping(context.Background()), "Docker ping failed")
}
