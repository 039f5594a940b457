// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no tags or framework dependencies.
package domain

// Container represents a running container as reported by the runtime.
type Container struct {
	ID     string
	Names  []string
	Labels map[string]string
}

// PrimaryName returns the first runtime name without its leading slash.
func (c *Container) PrimaryName() string {
	if len(c.Names) == 0 {
		return ""
	}
	name := c.Names[0]
	if len(name) > 0 && name[0] == '/' {
		return name[1:]
	}
	return name
}

// ContainerRecord is the identity of a discovered proxy target.
// FullName is resolvable inside the proxy network, Hostname is the
// externally visible virtual host.
type ContainerRecord struct {
	ID        string
	ShortName string
	FullName  string
	Hostname  string
}

// NetworkInfo represents network configuration and state.
type NetworkInfo struct {
	ID         string
	Name       string
	Driver     string
	Containers []string
	Labels     map[string]string
}

// HasMember reports whether the container ID is attached to the network.
func (n *NetworkInfo) HasMember(containerID string) bool {
	for _, id := range n.Containers {
		if id == containerID {
			return true
		}
	}
	return false
}
