// Package network manages the virtual network shared by the proxy and the
// containers it routes to.
package network

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// MinEngineVersion is the oldest engine release the proxy is tested against.
const MinEngineVersion = "20.10.0"

var minEngineVersion = semver.MustParse(MinEngineVersion)

// RuntimeInfo describes the engine found by Preflight.
type RuntimeInfo struct {
	Version  string
	Warnings []string
}

// Service implements network and runtime checks.
type Service struct {
	runtime out.ContainerRuntime
}

// NewService creates a new network service.
func NewService(runtime out.ContainerRuntime) *Service {
	return &Service{runtime: runtime}
}

// Preflight pings the engine and checks its version. An unreachable engine
// is fatal, an old or unparseable version only produces a warning.
func (s *Service) Preflight(ctx context.Context) (*RuntimeInfo, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "network",
		logging.FieldAction:  "preflight",
	})
	log := logging.FromCtx(ctx)

	if err := s.runtime.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRuntimeUnavailable, err)
	}

	info := &RuntimeInfo{}
	version, err := s.runtime.Version(ctx)
	if err != nil {
		info.Warnings = append(info.Warnings, fmt.Sprintf("could not read engine version: %v", err))
		log.Warn().Err(err).Msg("could not read engine version")
		return info, nil
	}
	info.Version = version

	if warning := CheckVersion(version); warning != "" {
		info.Warnings = append(info.Warnings, warning)
		log.Warn().Str("version", version).Msg(warning)
		return info, nil
	}

	log.Debug().Str("version", version).Msg("engine reachable")
	return info, nil
}

// CheckVersion returns a warning when version is older than MinEngineVersion
// or cannot be parsed, and an empty string otherwise.
func CheckVersion(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Sprintf("unrecognized engine version %q", version)
	}
	if v.LessThan(minEngineVersion) {
		return fmt.Sprintf("engine version %s is older than %s", version, MinEngineVersion)
	}
	return ""
}

// Ensure creates the network when it does not exist yet. It reports whether
// a network was created.
func (s *Service) Ensure(ctx context.Context, name string) (bool, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:    "usecase",
		logging.FieldUseCase:  "network",
		logging.FieldAction:   "ensure",
		logging.FieldEntityID: name,
	})
	log := logging.FromCtx(ctx)

	networks, err := s.runtime.ListNetworks(ctx)
	if err != nil {
		return false, logging.WrapErr(log, err, "failed to list networks")
	}

	for _, n := range networks {
		if n.Name == name {
			log.Debug().Str("network_id", n.ID).Msg("network already exists")
			return false, nil
		}
	}

	id, err := s.runtime.CreateNetwork(ctx, name, map[string]string{domain.LabelManaged: "true"})
	if err != nil {
		return false, logging.WrapErr(log, err, "failed to create network")
	}

	log.Info().Str("network_id", id).Msg("network created")
	return true, nil
}

// VerifyAttached checks that every container is a member of the network.
func (s *Service) VerifyAttached(ctx context.Context, name string, containers []domain.ContainerRecord) error {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:    "usecase",
		logging.FieldUseCase:  "network",
		logging.FieldAction:   "verify_attached",
		logging.FieldEntityID: name,
	})
	log := logging.FromCtx(ctx)

	info, err := s.runtime.InspectNetwork(ctx, name)
	if err != nil {
		return logging.WrapErr(log, err, "failed to inspect network")
	}

	for _, c := range containers {
		if !info.HasMember(c.ID) {
			return fmt.Errorf("%w: container %s is not connected to network %s", domain.ErrNotAttached, c.FullName, name)
		}
	}

	log.Debug().Int(logging.FieldCount, len(containers)).Msg("all containers attached")
	return nil
}
