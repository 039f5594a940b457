// Package sync converges the proxy configuration, the hosts file and the
// compose manifest with the containers currently running.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/docker-local-proxy/internal/boundaries/in"
	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
	"github.com/bnema/docker-local-proxy/internal/usecase/allocation"
	"github.com/bnema/docker-local-proxy/internal/usecase/discovery"
	"github.com/bnema/docker-local-proxy/internal/usecase/hosts"
	"github.com/bnema/docker-local-proxy/internal/usecase/manifest"
	"github.com/bnema/docker-local-proxy/internal/usecase/network"
	"github.com/bnema/docker-local-proxy/internal/usecase/render"
)

const dryRunDetail = "dry run"

// Options holds everything a sync run needs to know about its environment.
type Options struct {
	Discovery discovery.Options
	Policy    domain.PortPolicy

	NetworkName string

	GeneratedDir   string
	HTTPConfigPath string
	TCPConfigPath  string

	HostsPath    string
	HostsMarkers hosts.Markers

	ManifestPath    string
	ManifestService string

	ComposeDir     string
	ComposeProject string

	NetworkOnly             bool
	HostsOnly               bool
	DryRun                  bool
	AllowDuplicateHostnames bool
}

// Dependencies are the output ports used by the pipeline.
type Dependencies struct {
	Runtime   out.ContainerRuntime
	Files     out.FileStore
	Privilege out.PrivilegeChecker
	Compose   out.ComposeRunner
}

// Service implements in.SyncService.
type Service struct {
	opts      Options
	files     out.FileStore
	compose   out.ComposeRunner
	discovery *discovery.Service
	network   *network.Service
	hosts     *hosts.Writer
	manifest  *manifest.Synchronizer
	engine    *render.Engine
}

var _ in.SyncService = (*Service)(nil)

// NewService wires the pipeline from its output ports.
func NewService(deps Dependencies, opts Options) (*Service, error) {
	engine, err := render.NewEngine()
	if err != nil {
		return nil, err
	}

	return &Service{
		opts:      opts,
		files:     deps.Files,
		compose:   deps.Compose,
		discovery: discovery.NewService(deps.Runtime, opts.Discovery),
		network:   network.NewService(deps.Runtime),
		hosts:     hosts.NewWriter(deps.Files, deps.Privilege, opts.HostsMarkers),
		manifest:  manifest.NewSynchronizer(deps.Files, opts.ManifestService),
		engine:    engine,
	}, nil
}

// Sync runs one convergence pass. The returned report is never nil and
// describes every step reached, including on error.
func (s *Service) Sync(ctx context.Context) (*domain.Report, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "sync",
		"dry_run":            s.opts.DryRun,
	})
	log := logging.FromCtx(ctx)

	report := &domain.Report{Policy: s.opts.Policy, DryRun: s.opts.DryRun}

	info, err := s.network.Preflight(ctx)
	if err != nil {
		return report, err
	}
	report.Warnings = append(report.Warnings, info.Warnings...)

	containers, err := s.discovery.Discover(ctx)
	if err != nil {
		return report, err
	}
	report.Allocation.Containers = containers

	switch {
	case s.opts.NetworkOnly:
		log.Info().Msg("only creating the network")
		return report, s.ensureNetwork(ctx, report)
	case s.opts.HostsOnly:
		log.Info().Msg("only updating the hosts file")
		s.applyHosts(ctx, report, containers)
		return report, nil
	}

	if !s.opts.DryRun {
		if err := s.files.EnsureDir(s.opts.GeneratedDir); err != nil {
			return report, logging.WrapErr(log, err, "failed to create generated directory")
		}
	}

	if err := s.ensureNetwork(ctx, report); err != nil {
		return report, err
	}

	if !s.opts.DryRun {
		if err := s.network.VerifyAttached(ctx, s.opts.NetworkName, containers); err != nil {
			return report, err
		}
	}

	alloc, err := allocation.Allocate(containers, s.opts.Policy)
	if err != nil {
		return report, err
	}
	report.Allocation = alloc

	if err := allocation.CheckHostnames(containers); err != nil {
		if !s.opts.AllowDuplicateHostnames {
			return report, err
		}
		log.Warn().Err(err).Msg("duplicate hostnames, later virtual hosts are shadowed")
		report.Warnings = append(report.Warnings, err.Error())
	}

	artifacts, err := s.engine.Render(alloc, s.opts.Policy)
	if err != nil {
		return report, err
	}
	report.HTTPConfig = artifacts.HTTPConfig
	report.TCPConfig = artifacts.TCPConfig

	if s.opts.DryRun {
		for _, step := range []string{domain.StepConfigs, domain.StepHosts, domain.StepManifest, domain.StepCompose} {
			report.Record(step, domain.StepSkipped, dryRunDetail)
		}
		return report, nil
	}

	if err := s.writeConfigs(ctx, artifacts); err != nil {
		report.Record(domain.StepConfigs, domain.StepFailed, err.Error())
		return report, err
	}
	report.Record(domain.StepConfigs, domain.StepApplied, s.opts.GeneratedDir)

	s.applyHosts(ctx, report, containers)
	s.syncManifest(ctx, report, alloc)

	return report, s.composeUp(ctx, report)
}

func (s *Service) ensureNetwork(ctx context.Context, report *domain.Report) error {
	if s.opts.DryRun {
		report.Record(domain.StepNetwork, domain.StepSkipped, dryRunDetail)
		return nil
	}

	created, err := s.network.Ensure(ctx, s.opts.NetworkName)
	if err != nil {
		report.Record(domain.StepNetwork, domain.StepFailed, err.Error())
		return err
	}
	if created {
		report.Record(domain.StepNetwork, domain.StepApplied, "created "+s.opts.NetworkName)
	} else {
		report.Record(domain.StepNetwork, domain.StepSkipped, s.opts.NetworkName+" already exists")
	}
	return nil
}

func (s *Service) writeConfigs(ctx context.Context, artifacts domain.GeneratedArtifacts) error {
	log := logging.FromCtx(ctx)

	if err := s.files.WriteFile(s.opts.HTTPConfigPath, []byte(artifacts.HTTPConfig)); err != nil {
		return logging.WrapErr(log, err, "failed to write http proxy config")
	}
	if err := s.files.WriteFile(s.opts.TCPConfigPath, []byte(artifacts.TCPConfig)); err != nil {
		return logging.WrapErr(log, err, "failed to write tcp proxy config")
	}

	log.Info().
		Str("http_config", s.opts.HTTPConfigPath).
		Str("tcp_config", s.opts.TCPConfigPath).
		Msg("proxy configs written")
	return nil
}

// applyHosts never fails the run.
func (s *Service) applyHosts(ctx context.Context, report *domain.Report, containers []domain.ContainerRecord) {
	log := logging.FromCtx(ctx)

	if s.opts.DryRun {
		report.Record(domain.StepHosts, domain.StepSkipped, dryRunDetail)
		return
	}

	hostnames := make([]string, 0, len(containers))
	for _, c := range containers {
		hostnames = append(hostnames, c.Hostname)
	}

	changed, err := s.hosts.Apply(ctx, s.opts.HostsPath, hostnames)
	switch {
	case errors.Is(err, domain.ErrInsufficientPrivileges):
		log.Error().Err(err).Msg("administrative privileges required to update hosts file")
		report.Record(domain.StepHosts, domain.StepSkipped, "not running as root")
	case err != nil:
		log.Error().Err(err).Msg("failed to update hosts file")
		report.Record(domain.StepHosts, domain.StepFailed, err.Error())
	case changed:
		report.Record(domain.StepHosts, domain.StepApplied, s.opts.HostsPath)
	default:
		report.Record(domain.StepHosts, domain.StepSkipped, "up to date")
	}
}

// syncManifest never fails the run.
func (s *Service) syncManifest(ctx context.Context, report *domain.Report, alloc domain.Allocation) {
	log := logging.FromCtx(ctx)

	changed, err := s.manifest.Apply(ctx, s.opts.ManifestPath, alloc, s.opts.Policy)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("failed to update compose manifest")
		report.Record(domain.StepManifest, domain.StepFailed, err.Error())
	case changed:
		report.Record(domain.StepManifest, domain.StepApplied, s.opts.ManifestPath)
	default:
		report.Record(domain.StepManifest, domain.StepSkipped, "up to date")
	}
}

func (s *Service) composeUp(ctx context.Context, report *domain.Report) error {
	log := logging.FromCtx(ctx)

	_, err := s.compose.Up(ctx, s.opts.ComposeDir, s.opts.ComposeProject)
	if err != nil {
		log.Error().Err(err).Msg("failed to start proxy stack")
		report.Record(domain.StepCompose, domain.StepFailed, err.Error())
		if !errors.Is(err, domain.ErrComposeFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrComposeFailed, err)
		}
		return err
	}

	report.Record(domain.StepCompose, domain.StepApplied, "project "+s.opts.ComposeProject)
	return nil
}
