package discovery

import (
	"strings"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

// ResolveOptions controls how hostnames are derived from container names.
type ResolveOptions struct {
	Separator      string
	HostnameLabel  string
	HostnameSuffix string
}

// DefaultResolveOptions derives "api.localhost" from "api-worker-1".
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{
		Separator:      "-",
		HostnameLabel:  domain.LabelHostname,
		HostnameSuffix: "localhost",
	}
}

func (o ResolveOptions) withDefaults() ResolveOptions {
	def := DefaultResolveOptions()
	if o.Separator == "" {
		o.Separator = def.Separator
	}
	if o.HostnameLabel == "" {
		o.HostnameLabel = def.HostnameLabel
	}
	if o.HostnameSuffix == "" {
		o.HostnameSuffix = def.HostnameSuffix
	}
	return o
}

// Resolve returns the short name and the virtual host for a runtime name.
// The short name is the part before the first separator. A non-empty
// hostname label wins over the derived "{short}.{suffix}".
func Resolve(rawName string, labels map[string]string, opts ResolveOptions) (shortName, hostname string) {
	opts = opts.withDefaults()

	name := strings.TrimPrefix(rawName, "/")
	shortName, _, _ = strings.Cut(name, opts.Separator)

	if label := labels[opts.HostnameLabel]; label != "" {
		return shortName, label
	}
	return shortName, shortName + "." + strings.TrimPrefix(opts.HostnameSuffix, ".")
}

// Record maps a runtime container to its proxy identity.
func Record(c *domain.Container, opts ResolveOptions) domain.ContainerRecord {
	fullName := c.PrimaryName()
	shortName, hostname := Resolve(fullName, c.Labels, opts)
	return domain.ContainerRecord{
		ID:        c.ID,
		ShortName: shortName,
		FullName:  fullName,
		Hostname:  hostname,
	}
}
