package hosts

import (
	"context"
	"fmt"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// Markers delimit the generated region.
type Markers struct {
	Start string
	End   string
}

// Writer applies the generated region to a hosts file.
type Writer struct {
	files     out.FileStore
	privilege out.PrivilegeChecker
	markers   Markers
}

// NewWriter creates a Writer.
func NewWriter(files out.FileStore, privilege out.PrivilegeChecker, markers Markers) *Writer {
	return &Writer{files: files, privilege: privilege, markers: markers}
}

// Apply patches the hosts file at path. It returns false when the file was
// already up to date.
func (w *Writer) Apply(ctx context.Context, path string, hostnames []string) (bool, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldUseCase: "hosts",
		logging.FieldAction:  "apply",
		logging.FieldPath:    path,
	})
	log := logging.FromCtx(ctx)

	if !w.privilege.IsElevated() {
		return false, fmt.Errorf("%w: cannot modify %s", domain.ErrInsufficientPrivileges, path)
	}

	current, err := w.files.ReadFile(path)
	if err != nil {
		return false, logging.WrapErr(log, err, "failed to read hosts file")
	}

	patched := Patch(string(current), hostnames, w.markers.Start, w.markers.End)
	if patched == string(current) {
		log.Debug().Msg("hosts file already up to date")
		return false, nil
	}

	if err := w.files.WriteFile(path, []byte(patched)); err != nil {
		return false, logging.WrapErr(log, err, "failed to write hosts file")
	}

	log.Info().Int(logging.FieldCount, len(hostnames)).Msg("hosts file updated")
	return true, nil
}
