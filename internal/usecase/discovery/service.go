// Package discovery finds the containers the proxy should route to.
package discovery

import (
	"context"
	"strings"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// Options configures discovery.
type Options struct {
	FilterName string
	Resolve    ResolveOptions
}

// Service lists running containers and turns them into proxy records.
type Service struct {
	runtime out.ContainerRuntime
	opts    Options
}

// NewService creates a new discovery service.
func NewService(runtime out.ContainerRuntime, opts Options) *Service {
	return &Service{
		runtime: runtime,
		opts:    opts,
	}
}

// Discover returns the matching containers in runtime order.
func (s *Service) Discover(ctx context.Context) ([]domain.ContainerRecord, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:   "usecase",
		logging.FieldUseCase: "discovery",
		logging.FieldAction:  "discover",
		"filter":             s.opts.FilterName,
	})
	log := logging.FromCtx(ctx)

	containers, err := s.runtime.ListContainers(ctx)
	if err != nil {
		return nil, logging.WrapErr(log, err, "failed to list running containers")
	}

	var records []domain.ContainerRecord
	for _, c := range Filter(containers, s.opts.FilterName) {
		record := Record(c, s.opts.Resolve)
		log.Debug().
			Str(logging.FieldEntityID, record.ID).
			Str("container", record.FullName).
			Str("hostname", record.Hostname).
			Msg("discovered container")
		records = append(records, record)
	}

	log.Info().Int(logging.FieldCount, len(records)).Msg("containers discovered")
	return records, nil
}

// Filter keeps containers having at least one name containing filter.
// Containers without any name cannot be addressed and are dropped.
func Filter(containers []*domain.Container, filter string) []*domain.Container {
	var result []*domain.Container
	for _, c := range containers {
		if c == nil || len(c.Names) == 0 {
			continue
		}
		for _, name := range c.Names {
			if strings.Contains(name, filter) {
				result = append(result, c)
				break
			}
		}
	}
	return result
}
