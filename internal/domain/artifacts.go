package domain

// GeneratedArtifacts holds the rendered proxy configuration files.
// Both files are regenerated from scratch on every run.
type GeneratedArtifacts struct {
	HTTPConfig string
	TCPConfig  string
}
