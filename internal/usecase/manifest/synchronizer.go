package manifest

import (
	"bytes"
	"context"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// Synchronizer rewrites the ports of one service in a compose file.
type Synchronizer struct {
	files   out.FileStore
	service string
}

// NewSynchronizer creates a Synchronizer for service.
func NewSynchronizer(files out.FileStore, service string) *Synchronizer {
	return &Synchronizer{files: files, service: service}
}

// Apply reads the manifest at path, replaces the service ports and writes it
// back. The file is left untouched on any error. It returns false when the
// manifest already matched.
func (s *Synchronizer) Apply(ctx context.Context, path string, alloc domain.Allocation, policy domain.PortPolicy) (bool, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldUseCase:  "manifest",
		logging.FieldAction:   "sync_ports",
		logging.FieldPath:     path,
		logging.FieldEntityID: s.service,
	})
	log := logging.FromCtx(ctx)

	current, err := s.files.ReadFile(path)
	if err != nil {
		return false, logging.WrapErr(log, err, "failed to read manifest")
	}

	updated, err := SyncPorts(current, s.service, alloc, policy)
	if err != nil {
		return false, logging.WrapErr(log, err, "failed to update manifest")
	}

	if bytes.Equal(current, updated) {
		log.Debug().Msg("manifest already up to date")
		return false, nil
	}

	if err := s.files.WriteFile(path, updated); err != nil {
		return false, logging.WrapErr(log, err, "failed to write manifest")
	}

	log.Info().Strs("ports", PortMappings(alloc, policy)).Msg("manifest ports updated")
	return true, nil
}
