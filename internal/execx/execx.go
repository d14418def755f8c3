package execx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts command execution so callers can be unit-tested without
// spawning real processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

// Run executes name and returns an error carrying stderr when it fails or
// when ctx expires first.
func (OSRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", name, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %s: %s", name, err.Error(), msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
