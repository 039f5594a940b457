// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"context"
	"fmt"
	"sort"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

const defaultDriver = "bridge"

// Runtime implements the ContainerRuntime interface using Docker API.
type Runtime struct {
	client *client.Client
}

var _ out.ContainerRuntime = (*Runtime)(nil)

// NewRuntime creates a new Docker runtime instance.
func NewRuntime() (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Runtime{
		client: cli,
	}, nil
}

// NewRuntimeWithClient creates a new Docker runtime instance with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client) *Runtime {
	return &Runtime{
		client: cli,
	}
}

// Close releases the underlying client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

func adapterCtx(ctx context.Context, action string, extra map[string]any) context.Context {
	fields := map[string]any{
		logging.FieldLayer:   "adapter",
		logging.FieldAdapter: "docker",
		logging.FieldAction:  action,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return logging.CtxWithFields(ctx, fields)
}

// ListContainers lists running containers.
func (r *Runtime) ListContainers(ctx context.Context) ([]*domain.Container, error) {
	ctx = adapterCtx(ctx, "ListContainers", nil)
	log := logging.FromCtx(ctx)

	containers, err := r.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, logging.WrapErr(log, err, "failed to list containers")
	}

	result := make([]*domain.Container, 0, len(containers))
	for _, c := range containers {
		result = append(result, &domain.Container{
			ID:     c.ID,
			Names:  c.Names,
			Labels: c.Labels,
		})
	}

	log.Debug().Int(logging.FieldCount, len(result)).Msg("containers listed")
	return result, nil
}

// ListNetworks lists all Docker networks.
func (r *Runtime) ListNetworks(ctx context.Context) ([]*domain.NetworkInfo, error) {
	ctx = adapterCtx(ctx, "ListNetworks", nil)
	log := logging.FromCtx(ctx)

	networks, err := r.client.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, logging.WrapErr(log, err, "failed to list networks")
	}

	result := make([]*domain.NetworkInfo, 0, len(networks))
	for _, n := range networks {
		result = append(result, toNetworkInfo(n.ID, n.Name, n.Driver, n.Containers, n.Labels))
	}

	return result, nil
}

// CreateNetwork creates a bridge network carrying labels and returns its ID.
func (r *Runtime) CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error) {
	ctx = adapterCtx(ctx, "CreateNetwork", map[string]any{"network": name})
	log := logging.FromCtx(ctx)

	resp, err := r.client.NetworkCreate(ctx, name, network.CreateOptions{
		Driver: defaultDriver,
		Labels: labels,
	})
	if err != nil {
		return "", logging.WrapErr(log, err, "failed to create network")
	}

	log.Info().Str("driver", defaultDriver).Str("network_id", resp.ID).Msg("network created")
	return resp.ID, nil
}

// InspectNetwork returns the network with its attached containers.
func (r *Runtime) InspectNetwork(ctx context.Context, name string) (*domain.NetworkInfo, error) {
	ctx = adapterCtx(ctx, "InspectNetwork", map[string]any{"network": name})
	log := logging.FromCtx(ctx)

	resp, err := r.client.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, name)
		}
		return nil, logging.WrapErr(log, err, "failed to inspect network")
	}

	return toNetworkInfo(resp.ID, resp.Name, resp.Driver, resp.Containers, resp.Labels), nil
}

func toNetworkInfo(id, name, driver string, endpoints map[string]network.EndpointResource, labels map[string]string) *domain.NetworkInfo {
	containers := make([]string, 0, len(endpoints))
	for containerID := range endpoints {
		containers = append(containers, containerID)
	}
	sort.Strings(containers)

	return &domain.NetworkInfo{
		ID:         id,
		Name:       name,
		Driver:     driver,
		Containers: containers,
		Labels:     labels,
	}
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	ctx = adapterCtx(ctx, "Ping", nil)
	log := logging.FromCtx(ctx)

	_, err := r.client.Ping(ctx)
	if err != nil {
		return logging.WrapErr(log, err, "Docker ping failed")
	}
	return nil
}

// Version returns Docker version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	ctx = adapterCtx(ctx, "Version", nil)
	log := logging.FromCtx(ctx)

	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", logging.WrapErr(log, err, "failed to get Docker version")
	}
	return version.Version, nil
}
