package process

import (
	"errors"
	"os/exec"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
)

func notFound(name string, err error) error {
	return foundationerrors.WrapError(err, foundationerrors.CategoryNotFound, "command not found: "+name).
		Fatal().
		WithContext("command", name).
		Build()
}

// exitError classifies the error returned by Wait/Run for cmd.
func exitError(cmd Command, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return foundationerrors.WrapError(err, foundationerrors.CategoryProcess, "command failed: "+cmd.String()).
			Fatal().
			WithContext("exit_code", exitErr.ExitCode()).
			WithContext("dir", cmd.Dir).
			Build()
	}
	return foundationerrors.WrapError(err, foundationerrors.CategoryProcess, "failed to start "+cmd.Name).
		Fatal().
		WithContext("command", cmd.String()).
		Build()
}

// ExitCode extracts the child exit code recorded on a process error.
func ExitCode(err error) (int, bool) {
	classified, ok := foundationerrors.AsClassified(err)
	if !ok {
		return 0, false
	}
	return classified.Context().Int("exit_code")
}
