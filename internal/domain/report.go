package domain

// StepStatus is the outcome of one pipeline step.
type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// Step names reported by the sync pipeline.
const (
	StepNetwork  = "network"
	StepConfigs  = "configs"
	StepHosts    = "hosts"
	StepManifest = "manifest"
	StepCompose  = "compose"
)

// StepResult records what happened to one external surface.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
}

// Report summarizes a sync run.
type Report struct {
	Allocation Allocation
	Policy     PortPolicy
	Steps      []StepResult
	Warnings   []string
	DryRun     bool

	// Rendered artifacts, kept for dry runs.
	HTTPConfig string
	TCPConfig  string
}

// Record appends a step result.
func (r *Report) Record(name string, status StepStatus, detail string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Detail: detail})
}

// Step returns the last recorded result for name.
func (r *Report) Step(name string) (StepResult, bool) {
	for i := len(r.Steps) - 1; i >= 0; i-- {
		if r.Steps[i].Name == name {
			return r.Steps[i], true
		}
	}
	return StepResult{}, false
}
