// Package in defines input ports driven by the CLI adapter.
package in

import (
	"context"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

// SyncService converges the proxy configuration, hosts file and compose
// manifest with the containers currently running.
type SyncService interface {
	// Sync runs one full convergence pass and reports what was changed.
	// The report is never nil and covers every step reached, even on error.
	Sync(ctx context.Context) (*domain.Report, error)
}
