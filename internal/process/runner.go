package process

import (
	"context"
	"log/slog"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes. Output is not captured.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates a runner logging to logger (slog.Default when nil).
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger}
}

// Run starts cmd in cmd.Dir and waits for it. A non-zero exit is returned as a process error
// carrying the exit code. Cancelling ctx kills the child.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if _, err := LookPath(cmd.Name); err != nil {
		return err
	}

	r.logger.Debug("Running command", logfields.Command(cmd.String()), logfields.Dir(cmd.Dir))
	if err := cmd.cmd(ctx).Run(); err != nil {
		if ctx.Err() != nil {
			return foundationerrors.WrapError(ctx.Err(), foundationerrors.CategoryRuntime, "interrupted: "+cmd.String()).
				Fatal().
				Build()
		}
		perr := exitError(cmd, err)
		if code, ok := ExitCode(perr); ok {
			r.logger.Debug("Command exited non-zero", logfields.Command(cmd.String()), logfields.ExitCode(code))
		}
		return perr
	}
	return nil
}
