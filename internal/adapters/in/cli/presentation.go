package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/docker-local-proxy/internal/adapters/in/cli/ui/components"
	"github.com/bnema/docker-local-proxy/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/docker-local-proxy/internal/domain"
)

var cliWriteLine = func(w io.Writer, msg string) error {
	_, err := fmt.Fprintln(w, msg)
	return err
}

func cliRenderTitle(msg string) string {
	return styles.Theme.Title.Render(msg)
}

func cliRenderHeading(msg string) string {
	return styles.Theme.Heading.Render(msg)
}

func cliRenderMuted(msg string) string {
	return styles.Theme.Muted.Render(msg)
}

func cliRenderEmptyState(msg string) string {
	return cliRenderMuted(msg)
}

func cliRenderMeta(label, value string) string {
	return styles.Theme.Bold.Render(label) + " " + styles.Theme.Muted.Render(value)
}

func cliRenderWarning(msg string) string {
	return styles.RenderWarning(msg)
}

func cliRenderInfo(msg string) string {
	return styles.RenderInfo(msg)
}

func cliRenderError(msg string) string {
	return styles.RenderError(msg)
}

// renderReport prints the summary of a sync run.
func renderReport(w io.Writer, report *domain.Report) error {
	lines := []string{
		cliRenderTitle("docker-local-proxy"),
		cliRenderMeta("HTTP ports:", joinPorts(report.Policy.HTTPPorts)),
		cliRenderMeta("TCP ports:", joinPorts(report.Policy.TCPBasePorts)),
	}
	if report.DryRun {
		lines = append(lines, cliRenderInfo("dry run, nothing was written"))
	}
	for _, warning := range report.Warnings {
		lines = append(lines, cliRenderWarning(warning))
	}

	lines = append(lines, "")
	if len(report.Allocation.Containers) == 0 {
		lines = append(lines, cliRenderEmptyState("No matching containers found"))
	} else {
		lines = append(lines, components.BindingTable(bindingRows(report.Allocation)))
	}

	if len(report.Steps) > 0 {
		lines = append(lines, "", components.StepTable(stepRows(report.Steps)))
	}

	if report.DryRun && report.HTTPConfig != "" {
		lines = append(lines,
			"", cliRenderHeading("http_proxies.conf"), report.HTTPConfig,
			cliRenderHeading("tcp_proxies.conf"), report.TCPConfig,
		)
	}

	for _, line := range lines {
		if err := cliWriteLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

func bindingRows(alloc domain.Allocation) [][]string {
	rows := make([][]string, 0, len(alloc.Containers))
	for i, c := range alloc.Containers {
		var httpPorts []int
		for _, b := range alloc.HTTPBindings {
			if b.Container.ID == c.ID {
				httpPorts = append(httpPorts, b.Port)
			}
		}

		var tcp []string
		for _, b := range alloc.TCPBindingsFor(i) {
			tcp = append(tcp, fmt.Sprintf("%d:%d", b.ListenPort, b.BasePort))
		}

		rows = append(rows, []string{c.FullName, c.Hostname, joinPorts(httpPorts), orDash(strings.Join(tcp, ", "))})
	}
	return rows
}

func stepRows(steps []domain.StepResult) [][]string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, []string{s.Name, components.RenderStepStatus(s.Status), s.Detail})
	}
	return rows
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return orDash(strings.Join(parts, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
