// Package allocation assigns proxy ports to discovered containers.
package allocation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

const maxPort = 65535

// Allocate computes every binding for containers in discovery order.
// HTTP bindings share the configured port and are routed by hostname.
// TCP bindings listen on base+index so each container gets its own port.
func Allocate(containers []domain.ContainerRecord, policy domain.PortPolicy) (domain.Allocation, error) {
	if err := CheckTCPCapacity(len(containers), policy); err != nil {
		return domain.Allocation{}, err
	}

	alloc := domain.Allocation{
		Containers: append([]domain.ContainerRecord(nil), containers...),
	}

	for _, c := range containers {
		for _, port := range policy.HTTPPorts {
			alloc.HTTPBindings = append(alloc.HTTPBindings, domain.HTTPBinding{
				Container: c,
				Port:      port,
			})
		}
	}

	for i, c := range containers {
		for _, base := range policy.TCPBasePorts {
			alloc.TCPBindings = append(alloc.TCPBindings, domain.TCPBinding{
				Container:  c,
				Index:      i,
				BasePort:   base,
				ListenPort: base + i,
			})
		}
	}

	return alloc, nil
}

// CheckTCPCapacity verifies that n containers fit between consecutive TCP
// base ports, that the highest listen port is valid and that no listen port
// lands on an HTTP port. Repeated base ports are left alone.
func CheckTCPCapacity(n int, policy domain.PortPolicy) error {
	if n == 0 || len(policy.TCPBasePorts) == 0 {
		return nil
	}

	bases := distinctSorted(policy.TCPBasePorts)

	for i := 1; i < len(bases); i++ {
		if gap := bases[i] - bases[i-1]; n > gap {
			return fmt.Errorf("%w: %d containers do not fit between tcp base ports %d and %d",
				domain.ErrPortCollision, n, bases[i-1], bases[i])
		}
	}

	if highest := bases[len(bases)-1] + n - 1; highest > maxPort {
		return fmt.Errorf("%w: tcp listen port %d exceeds %d", domain.ErrPortOutOfRange, highest, maxPort)
	}

	for _, http := range distinctSorted(policy.HTTPPorts) {
		for _, base := range bases {
			if http >= base && http < base+n {
				return fmt.Errorf("%w: tcp listen port %d (base %d) is also an http port",
					domain.ErrPortCollision, http, base)
			}
		}
	}

	return nil
}

// CheckHostnames reports hostnames claimed by more than one container.
func CheckHostnames(containers []domain.ContainerRecord) error {
	owners := make(map[string][]string)
	var order []string
	for _, c := range containers {
		if _, seen := owners[c.Hostname]; !seen {
			order = append(order, c.Hostname)
		}
		owners[c.Hostname] = append(owners[c.Hostname], c.FullName)
	}

	var conflicts []string
	for _, hostname := range order {
		if names := owners[hostname]; len(names) > 1 {
			conflicts = append(conflicts, fmt.Sprintf("%s (%s)", hostname, strings.Join(names, ", ")))
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrDuplicateHostname, strings.Join(conflicts, "; "))
}

func distinctSorted(ports []int) []int {
	seen := make(map[int]struct{}, len(ports))
	var result []int
	for _, p := range ports {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	sort.Ints(result)
	return result
}
