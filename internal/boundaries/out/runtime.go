// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, the compose CLI, the filesystem, etc.).
package out

import (
	"context"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

// ContainerRuntime defines the runtime queries the proxy needs.
// This interface abstracts the underlying container runtime (Docker, Podman, etc.).
type ContainerRuntime interface {
	// Container inspection
	ListContainers(ctx context.Context) ([]*domain.Container, error)

	// Network management
	ListNetworks(ctx context.Context) ([]*domain.NetworkInfo, error)
	CreateNetwork(ctx context.Context, name string, labels map[string]string) (string, error)
	InspectNetwork(ctx context.Context, name string) (*domain.NetworkInfo, error)

	// Runtime information
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}

// ComposeRunner applies the proxy's compose manifest.
type ComposeRunner interface {
	Up(ctx context.Context, dir, project string) (*CommandResult, error)
}

// CommandResult holds the captured output of an external command.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// PrivilegeChecker reports whether the process may modify system files.
type PrivilegeChecker interface {
	IsElevated() bool
}
