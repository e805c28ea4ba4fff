package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ExecRunner runs commands as child processes. Nil streams default to the
// process's own standard streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run spawns cmd with its working directory set to dir and waits for it.
// A missing executable, a failed start and a non-zero exit are all errors.
// Canceling ctx kills the child.
func (r *ExecRunner) Run(ctx context.Context, dir string, cmd Command) error {
	bin, err := exec.LookPath(cmd.Name)
	if err != nil {
		return fmt.Errorf("%s not found: %w", cmd.Name, err)
	}

	c := exec.CommandContext(ctx, bin, cmd.Args...)
	c.Dir = dir
	c.Stdin = r.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stdout = r.Stdout
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	c.Stderr = r.Stderr
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("%s exited with code %d: %w", cmd, exitErr.ExitCode(), err)
		}
		return fmt.Errorf("running %s: %w", cmd, err)
	}
	return nil
}
