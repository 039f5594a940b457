package domain

// PortPolicy lists the ports the proxy publishes. Values are not
// deduplicated; repeated ports are repeated in every generated artifact.
type PortPolicy struct {
	HTTPPorts    []int
	TCPBasePorts []int
}

// HTTPBinding routes a virtual host on Port to the same port on the container.
type HTTPBinding struct {
	Container ContainerRecord
	Port      int
}

// TCPBinding forwards ListenPort on the proxy to BasePort on the container.
// ListenPort is BasePort offset by the container's discovery index.
type TCPBinding struct {
	Container  ContainerRecord
	Index      int
	BasePort   int
	ListenPort int
}

// Allocation is the full set of bindings for one discovery pass.
// Both slices are ordered container-major.
type Allocation struct {
	Containers   []ContainerRecord
	HTTPBindings []HTTPBinding
	TCPBindings  []TCPBinding
}

// TCPBindingsFor returns the TCP bindings of the container at index i.
func (a Allocation) TCPBindingsFor(i int) []TCPBinding {
	var result []TCPBinding
	for _, b := range a.TCPBindings {
		if b.Index == i {
			result = append(result, b)
		}
	}
	return result
}
