// Package app provides the application initialization and wiring.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	// Adapters - Output
	"github.com/bnema/docker-local-proxy/internal/adapters/out/compose"
	"github.com/bnema/docker-local-proxy/internal/adapters/out/docker"
	"github.com/bnema/docker-local-proxy/internal/adapters/out/filesystem"
	"github.com/bnema/docker-local-proxy/internal/adapters/out/privilege"

	// Config
	"github.com/bnema/docker-local-proxy/internal/config"

	// Domain
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"

	// Use cases
	"github.com/bnema/docker-local-proxy/internal/usecase/discovery"
	"github.com/bnema/docker-local-proxy/internal/usecase/hosts"
	syncsvc "github.com/bnema/docker-local-proxy/internal/usecase/sync"
)

// SyncOptions maps the configuration onto the sync pipeline.
func SyncOptions(cfg config.Config) syncsvc.Options {
	return syncsvc.Options{
		Discovery: discovery.Options{
			FilterName: cfg.Discovery.FilterName,
			Resolve: discovery.ResolveOptions{
				Separator:      cfg.Discovery.Separator,
				HostnameLabel:  cfg.Discovery.HostnameLabel,
				HostnameSuffix: cfg.Discovery.HostnameSuffix,
			},
		},
		Policy:                  cfg.PortPolicy(),
		NetworkName:             cfg.Network.Name,
		GeneratedDir:            cfg.GeneratedDir(),
		HTTPConfigPath:          cfg.HTTPConfigPath(),
		TCPConfigPath:           cfg.TCPConfigPath(),
		HostsPath:               cfg.Hosts.Path,
		HostsMarkers:            hosts.Markers{Start: cfg.Hosts.StartMarker, End: cfg.Hosts.EndMarker},
		ManifestPath:            cfg.ManifestPath(),
		ManifestService:         cfg.Manifest.Service,
		ComposeDir:              cfg.Project.Dir,
		ComposeProject:          cfg.Compose.Project,
		NetworkOnly:             cfg.Mode.NetworkOnly,
		HostsOnly:               cfg.Mode.HostsOnly,
		DryRun:                  cfg.Mode.DryRun,
		AllowDuplicateHostnames: cfg.Discovery.AllowDuplicateHostnames,
	}
}

// NewSyncService creates the output adapters and the sync pipeline.
// The returned cleanup releases the Docker client.
func NewSyncService(cfg config.Config) (*syncsvc.Service, func(), error) {
	runtime, err := docker.NewRuntime()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = runtime.Close() }

	svc, err := syncsvc.NewService(syncsvc.Dependencies{
		Runtime:   runtime,
		Files:     filesystem.NewFiles(),
		Privilege: privilege.NewChecker(),
		Compose:   compose.NewRunner(cfg.Compose.Binary),
	}, SyncOptions(cfg))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create sync service: %w", err)
	}

	return svc, cleanup, nil
}

// Run performs one sync pass with cfg, logging through log.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) (*domain.Report, error) {
	ctx = logging.WithCtx(ctx, log)

	svc, cleanup, err := NewSyncService(cfg)
	if err != nil {
		return &domain.Report{Policy: cfg.PortPolicy(), DryRun: cfg.Mode.DryRun}, err
	}
	defer cleanup()

	log.Info().
		Ints("http_ports", cfg.Ports.HTTP).
		Ints("tcp_ports", cfg.Ports.TCP).
		Str("filter", cfg.Discovery.FilterName).
		Str("project_dir", cfg.Project.Dir).
		Msg("starting sync")

	return svc.Sync(ctx)
}
