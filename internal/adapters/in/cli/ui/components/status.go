package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/docker-local-proxy/internal/adapters/in/cli/ui/styles"
	"github.com/bnema/docker-local-proxy/internal/domain"
)

type statusConfig struct {
	icon  string
	style lipgloss.Style
}

var stepStatusConfigs = map[domain.StepStatus]statusConfig{
	domain.StepApplied: {icon: styles.IconSuccess, style: styles.Theme.Success},
	domain.StepSkipped: {icon: styles.IconSkipped, style: styles.Theme.Muted},
	domain.StepFailed:  {icon: styles.IconError, style: styles.Theme.Error},
}

// RenderStepStatus renders a step status with its icon.
func RenderStepStatus(status domain.StepStatus) string {
	cfg, ok := stepStatusConfigs[status]
	if !ok {
		cfg = statusConfig{icon: styles.IconInfo, style: styles.Theme.Info}
	}
	return cfg.style.Render(cfg.icon + " " + string(status))
}
