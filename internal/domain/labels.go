package domain

// Label keys read from, or written to, runtime objects.
const (
	// LabelHostname overrides the derived virtual host of a container.
	LabelHostname = "hostname"

	// LabelManaged marks networks created by docker-local-proxy.
	LabelManaged = "docker-local-proxy.managed"
)
