// Package render turns an allocation into nginx configuration files.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/bnema/docker-local-proxy/internal/domain"
)

const (
	httpTemplate = "http_proxies.conf.tmpl"
	tcpTemplate  = "tcp_proxies.conf.tmpl"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Engine renders the embedded proxy templates.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	tmpl, err := template.New("proxies").Option("missingkey=error").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy templates: %w", err)
	}
	return &Engine{templates: tmpl}, nil
}

type httpData struct {
	CatchAllPorts []int
	Bindings      []domain.HTTPBinding
}

// Render produces both configuration files. Output is byte-identical for
// identical input.
func (e *Engine) Render(alloc domain.Allocation, policy domain.PortPolicy) (domain.GeneratedArtifacts, error) {
	httpConfig, err := e.execute(httpTemplate, httpData{
		CatchAllPorts: firstSeen(policy.HTTPPorts),
		Bindings:      alloc.HTTPBindings,
	})
	if err != nil {
		return domain.GeneratedArtifacts{}, err
	}

	tcpConfig, err := e.execute(tcpTemplate, alloc.TCPBindings)
	if err != nil {
		return domain.GeneratedArtifacts{}, err
	}

	return domain.GeneratedArtifacts{HTTPConfig: httpConfig, TCPConfig: tcpConfig}, nil
}

func (e *Engine) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// firstSeen drops repeated ports so each port gets a single catch-all block.
func firstSeen(ports []int) []int {
	seen := make(map[int]struct{}, len(ports))
	var result []int
	for _, p := range ports {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}
