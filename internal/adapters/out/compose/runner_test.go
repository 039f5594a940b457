package compose

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// fakeCommand re-runs the test binary as the compose process.
func fakeCommand(exitCode int, recorded *[]string) CommandFactory {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*recorded = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess", "--")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("HELPER_EXIT_CODE=%d", exitCode),
		)
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	wd, _ := os.Getwd()
	fmt.Fprintf(os.Stdout, "cwd=%s\n", wd)
	fmt.Fprint(os.Stderr, "Container proxy Started\n")
	code := 0
	_, _ = fmt.Sscanf(os.Getenv("HELPER_EXIT_CODE"), "%d", &code)
	os.Exit(code)
}

func TestRunner_Up(t *testing.T) {
	dir := t.TempDir()
	var recorded []string
	runner := NewRunnerWithFactory("", fakeCommand(0, &recorded))

	result, err := runner.Up(context.Background(), dir, "docker-local-proxy")

	require.NoError(t, err)
	assert.Equal(t, []string{"docker", "compose", "-p", "docker-local-proxy", "up", "-d"}, recorded)
	assert.Equal(t, 0, result.ExitCode)
	assert.True(t, strings.HasPrefix(string(result.Stdout), "cwd="))
	assert.Contains(t, string(result.Stdout), dir)
	assert.Equal(t, "Container proxy Started\n", string(result.Stderr))
}

func TestRunner_Up_Failure(t *testing.T) {
	var recorded []string
	runner := NewRunnerWithFactory("podman", fakeCommand(3, &recorded))

	result, err := runner.Up(context.Background(), t.TempDir(), "stack")

	assert.ErrorIs(t, err, domain.ErrComposeFailed)
	assert.Equal(t, "podman", recorded[0])
	require.NotNil(t, result)
	assert.Equal(t, 3, result.ExitCode)
	assert.NotEmpty(t, result.Stderr)
}

func TestRunner_Up_FailureLogsBothStreams(t *testing.T) {
	var logs bytes.Buffer
	ctx := logging.WithCtx(context.Background(), zerolog.New(&logs))
	var recorded []string
	runner := NewRunnerWithFactory("", fakeCommand(1, &recorded))

	_, err := runner.Up(ctx, t.TempDir(), "stack")

	require.ErrorIs(t, err, domain.ErrComposeFailed)
	assert.Contains(t, logs.String(), `"stdout":"cwd=`)
	assert.Contains(t, logs.String(), `"stderr":"Container proxy Started\n"`)
	assert.Contains(t, logs.String(), "compose up failed")
}

func TestRunner_Up_MissingBinary(t *testing.T) {
	runner := NewRunner("definitely-not-a-real-binary-dlp")

	_, err := runner.Up(context.Background(), t.TempDir(), "stack")

	assert.ErrorIs(t, err, domain.ErrComposeFailed)
}

func TestArgs(t *testing.T) {
	assert.Equal(t, []string{"compose", "-p", "proj", "up", "-d"}, Args("proj"))
}
