// Package manifest keeps the proxy service's published ports in the compose
// manifest in step with the current allocation.
package manifest

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

const (
	servicesKey = "services"
	portsKey    = "ports"
	indent      = 2
)

// PortMappings lists the "P:P" mappings the proxy publishes: every HTTP
// port first, then every TCP listen port in allocation order.
func PortMappings(alloc domain.Allocation, policy domain.PortPolicy) []string {
	mappings := make([]string, 0, len(policy.HTTPPorts)+len(alloc.TCPBindings))
	for _, p := range policy.HTTPPorts {
		mappings = append(mappings, mapping(p))
	}
	for _, b := range alloc.TCPBindings {
		mappings = append(mappings, mapping(b.ListenPort))
	}
	return mappings
}

func mapping(port int) string {
	p := strconv.Itoa(port)
	return p + ":" + p
}

// SyncPorts replaces the ports list of service in the compose document.
// Comments and key order elsewhere in the document are kept.
func SyncPorts(doc []byte, service string, alloc domain.Allocation, policy domain.PortPolicy) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestParse, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrManifestServiceNotFound)
	}

	services := lookup(root.Content[0], servicesKey)
	if services == nil {
		return nil, fmt.Errorf("%w: no %q mapping", domain.ErrManifestServiceNotFound, servicesKey)
	}

	svc := lookup(services, service)
	if svc == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrManifestServiceNotFound, service)
	}

	setPorts(svc, portsNode(PortMappings(alloc, policy)))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// lookup returns the mapping value stored under key, or nil when parent is
// not a mapping or the value is not a mapping.
func lookup(parent *yaml.Node, key string) *yaml.Node {
	if parent == nil || parent.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(parent.Content); i += 2 {
		if parent.Content[i].Value == key {
			if v := parent.Content[i+1]; v.Kind == yaml.MappingNode {
				return v
			}
			return nil
		}
	}
	return nil
}

func setPorts(svc *yaml.Node, ports *yaml.Node) {
	for i := 0; i+1 < len(svc.Content); i += 2 {
		if svc.Content[i].Value == portsKey {
			ports.HeadComment = svc.Content[i+1].HeadComment
			ports.LineComment = svc.Content[i+1].LineComment
			svc.Content[i+1] = ports
			return
		}
	}
	svc.Content = append(svc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: portsKey},
		ports,
	)
}

func portsNode(mappings []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, m := range mappings {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Style: yaml.DoubleQuotedStyle,
			Value: m,
		})
	}
	return seq
}
