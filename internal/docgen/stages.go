package docgen

import (
	"context"
	"log/slog"
	"time"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// StageName identifies a documentation step.
type StageName string

// Canonical stage names.
const (
	StagePrepareDoxyfile StageName = "prepare_doxyfile"
	StageRunDoxygen      StageName = "run_doxygen"
	StageMkDocsBuild     StageName = "mkdocs_build"
	StageMkDocsServe     StageName = "mkdocs_serve"
)

// Stage is one step of a run.
type Stage func(ctx context.Context) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageRecord is the timing and result of an executed stage.
type StageRecord struct {
	Name     StageName
	Duration time.Duration
	Err      error
}

// Report collects the stages executed by a Generator, in order.
type Report struct {
	Stages []StageRecord
}

// Stage returns the record for name, if the stage ran.
func (r *Report) Stage(name StageName) (StageRecord, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageRecord{}, false
}

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(ctx context.Context, logger *slog.Logger, report *Report, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "interrupted before "+string(st.Name)).
				Fatal().
				Build()
		}
		t0 := time.Now()
		err := st.Fn(ctx)
		dur := time.Since(t0)
		report.Stages = append(report.Stages, StageRecord{Name: st.Name, Duration: dur, Err: err})

		ms := float64(dur.Microseconds()) / 1000
		if err != nil {
			logger.Warn("Stage failed", logfields.Stage(string(st.Name)), logfields.DurationMS(ms), logfields.Error(err))
			return err
		}
		logger.Info("Stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(ms))
	}
	return nil
}
