package install

import (
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// Command is one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as real subprocesses. Nil writers discard the
// corresponding stream.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the command and waits for it. A non-zero exit is reported as
// INSTALL_FAILED with the exit code in the details.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.Wrapf(err, errors.ErrInstallFailed, "%s exited with code %d", c.Name, exitErr.ExitCode()).
			WithDetail("command", c.String()).
			WithDetail("exit_code", exitErr.ExitCode())
	}
	return errors.Wrapf(err, errors.ErrInstallFailed, "cannot run %s", c.Name).
		WithDetail("command", c.String())
}
