// Package compose runs docker compose for the proxy stack.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/bnema/docker-local-proxy/internal/boundaries/out"
	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// CommandFactory builds the command to run. It matches exec.CommandContext.
type CommandFactory func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner implements out.ComposeRunner with the docker CLI.
type Runner struct {
	binary  string
	command CommandFactory
}

var _ out.ComposeRunner = (*Runner)(nil)

// NewRunner creates a runner invoking binary, "docker" when empty.
func NewRunner(binary string) *Runner {
	return NewRunnerWithFactory(binary, exec.CommandContext)
}

// NewRunnerWithFactory creates a runner with a custom command factory (for testing).
func NewRunnerWithFactory(binary string, factory CommandFactory) *Runner {
	if binary == "" {
		binary = "docker"
	}
	return &Runner{binary: binary, command: factory}
}

// Args returns the arguments passed to the binary for project.
func Args(project string) []string {
	return []string{"compose", "-p", project, "up", "-d"}
}

// Up starts or updates the compose project in dir. Output is captured even
// when the command fails.
func (r *Runner) Up(ctx context.Context, dir, project string) (*out.CommandResult, error) {
	ctx = logging.CtxWithFields(ctx, map[string]any{
		logging.FieldLayer:    "adapter",
		logging.FieldAdapter:  "compose",
		logging.FieldAction:   "up",
		logging.FieldEntityID: project,
		logging.FieldPath:     dir,
	})
	log := logging.FromCtx(ctx)

	cmd := r.command(ctx, r.binary, Args(project)...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &out.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Error().
				Int("exit_code", result.ExitCode).
				Bytes("stdout", result.Stdout).
				Bytes("stderr", result.Stderr).
				Msg("compose up failed")
			return result, fmt.Errorf("%w: exit code %d", domain.ErrComposeFailed, result.ExitCode)
		}
		return result, logging.WrapErr(log, fmt.Errorf("%w: %w", domain.ErrComposeFailed, err), "failed to run compose")
	}

	if len(result.Stderr) > 0 {
		log.Debug().Bytes("stderr", result.Stderr).Msg("compose stderr")
	}
	log.Info().Bytes("stdout", result.Stdout).Msg("compose up finished")
	return result, nil
}
