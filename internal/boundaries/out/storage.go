package out

// FileStore reads and replaces whole files.
// WriteFile must replace the content atomically so readers never observe
// a partially written file.
type FileStore interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	EnsureDir(path string) error
}
