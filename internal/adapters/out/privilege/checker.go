// Package privilege reports whether the process may edit system files.
package privilege

import (
	"os"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
)

// Checker implements out.PrivilegeChecker using the effective user ID.
type Checker struct {
	euid func() int
}

var _ out.PrivilegeChecker = (*Checker)(nil)

// NewChecker creates a checker for the current process.
func NewChecker() *Checker {
	return &Checker{euid: os.Geteuid}
}

// IsElevated reports whether the process runs as root.
func (c *Checker) IsElevated() bool {
	return c.euid() == 0
}
