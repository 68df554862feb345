package process

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// DefaultGracePeriod bounds the wait between the termination request and the forced kill.
const DefaultGracePeriod = 5 * time.Second

// Outcome reports how a supervised process ended.
type Outcome string

const (
	// OutcomeExited means the process ended on its own.
	OutcomeExited Outcome = "exited"
	// OutcomeStopped means the process ended within the grace period after a termination request.
	OutcomeStopped Outcome = "stopped"
	// OutcomeKilled means the grace period ran out and the process was killed.
	OutcomeKilled Outcome = "killed"
)

// Supervisor runs a long-lived process in the foreground and stops it when the context is
// cancelled.
type Supervisor struct {
	gracePeriod time.Duration
	logger      *slog.Logger
}

// NewSupervisor creates a supervisor. A non-positive grace period selects DefaultGracePeriod.
func NewSupervisor(gracePeriod time.Duration, logger *slog.Logger) *Supervisor {
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{gracePeriod: gracePeriod, logger: logger}
}

// GracePeriod returns the configured grace period.
func (s *Supervisor) GracePeriod() time.Duration { return s.gracePeriod }

// Supervise starts cmd and waits for it. When ctx is cancelled the process is asked to
// terminate, given the grace period to exit, then killed. Shutdown triggered by ctx is not an
// error; failing to start is, and so is a non-zero exit the process chose on its own.
func (s *Supervisor) Supervise(ctx context.Context, cmd Command) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "interrupted before starting "+cmd.Name).
			Fatal().
			Build()
	}
	if _, err := LookPath(cmd.Name); err != nil {
		return "", err
	}

	// Shutdown is driven by ctx below, not by exec's kill-on-cancel.
	c := cmd.cmd(context.Background())
	if err := c.Start(); err != nil {
		return "", exitError(cmd, err)
	}
	pid := c.Process.Pid
	s.logger.Debug("Started supervised process", logfields.Command(cmd.String()), logfields.PID(pid))

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	select {
	case err := <-done:
		if err == nil {
			return OutcomeExited, nil
		}
		// The terminal delivers Ctrl-C to the child too; it may win the race with ctx.
		if ctx.Err() != nil {
			return OutcomeStopped, nil
		}
		return OutcomeExited, exitError(cmd, err)
	case <-ctx.Done():
	}

	s.logger.Info("Stopping process", logfields.Command(cmd.Name), logfields.PID(pid))
	if err := terminate(c.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Debug("Termination request failed", logfields.PID(pid), logfields.Error(err))
	}

	timer := time.NewTimer(s.gracePeriod)
	defer timer.Stop()

	select {
	case <-done:
		return OutcomeStopped, nil
	case <-timer.C:
	}

	s.logger.Warn("Process did not stop within grace period, killing",
		logfields.Command(cmd.Name), logfields.PID(pid), "grace_period", s.gracePeriod)
	if err := c.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.logger.Debug("Kill failed", logfields.PID(pid), logfields.Error(err))
	}
	<-done
	return OutcomeKilled, nil
}
