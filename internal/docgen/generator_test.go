package docgen

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doctool/internal/config"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/process"
	"git.home.luguber.info/inful/doctool/internal/workspace"
)

// recordingRunner records every command and returns the error configured for its binary.
type recordingRunner struct {
	mu       sync.Mutex
	commands []process.Command
	fail     map[string]error
	ran      chan process.Command
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{fail: map[string]error{}, ran: make(chan process.Command, 16)}
}

func (r *recordingRunner) Run(_ context.Context, cmd process.Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	err := r.fail[cmd.Name]
	r.mu.Unlock()
	select {
	case r.ran <- cmd:
	default:
	}
	return err
}

func (r *recordingRunner) recorded() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]process.Command(nil), r.commands...)
}

type fakeServer struct {
	calls   []process.Command
	outcome process.Outcome
	err     error
	during  func(ctx context.Context)
}

func (s *fakeServer) Supervise(ctx context.Context, cmd process.Command) (process.Outcome, error) {
	s.calls = append(s.calls, cmd)
	if s.during != nil {
		s.during(ctx)
	}
	return s.outcome, s.err
}

type fixedPrompter struct {
	answer bool
	asked  []string
}

func (p *fixedPrompter) Confirm(_ context.Context, q string) (bool, error) {
	p.asked = append(p.asked, q)
	return p.answer, nil
}

type fixture struct {
	root   string
	layout workspace.Layout
	cfg    *config.Config
	runner *recordingRunner
	server *fakeServer
	gen    *Generator
}

func newFixture(t *testing.T, withDoxyfile, withMkDocs bool) *fixture {
	t.Helper()
	root := t.TempDir()
	if withDoxyfile {
		require.NoError(t, os.WriteFile(filepath.Join(root, "Doxyfile"),
			[]byte("PROJECT_NAME = @PROJECT_NAME@\nINPUT = @CMAKE_SOURCE_DIR@/src\nOUTPUT_DIRECTORY = docs\n"), 0o600))
	}
	if withMkDocs {
		require.NoError(t, os.WriteFile(filepath.Join(root, "mkdocs.yml"), []byte("site_name: Helipad\n"), 0o600))
	}

	cfg := config.Default()
	cfg.Project.Name = "Helipad"
	layout := workspace.NewLayout(root, cfg.Paths)
	runner := newRecordingRunner()
	server := &fakeServer{outcome: process.OutcomeStopped}
	gen := NewGenerator(layout, cfg, runner, server).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithPrompter(&fixedPrompter{})

	return &fixture{root: root, layout: layout, cfg: cfg, runner: runner, server: server, gen: gen}
}

func TestRun_SourceThenUserDocs(t *testing.T) {
	f := newFixture(t, true, true)

	require.NoError(t, f.gen.Run(context.Background(), Options{Serve: config.ServeNever}))

	cmds := f.runner.recorded()
	require.Len(t, cmds, 2)
	assert.Equal(t, "doxygen "+f.layout.GeneratedDoxyfile(), cmds[0].String())
	assert.Equal(t, f.root, cmds[0].Dir)
	assert.Equal(t, "mkdocs build --config-file "+f.layout.MkDocsConfig, cmds[1].String())
	assert.Equal(t, f.root, cmds[1].Dir)
	assert.Empty(t, f.server.calls)

	data, err := os.ReadFile(f.layout.GeneratedDoxyfile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "PROJECT_NAME = Helipad")
	assert.Contains(t, string(data), "OUTPUT_DIRECTORY       = "+filepath.ToSlash(f.layout.DoxygenOutput))

	var names []StageName
	for _, s := range f.gen.Report().Stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, []StageName{StagePrepareDoxyfile, StageRunDoxygen, StageMkDocsBuild}, names)
}

func TestRun_LogsStageStartAndCompletion(t *testing.T) {
	f := newFixture(t, true, true)
	var logs bytes.Buffer
	f.gen.WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	require.NoError(t, f.gen.Run(context.Background(), Options{Serve: config.ServeNever}))

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	for _, stage := range []StageName{StagePrepareDoxyfile, StageRunDoxygen, StageMkDocsBuild} {
		var started, completed bool
		for _, line := range lines {
			if !strings.Contains(line, "stage="+string(stage)) {
				continue
			}
			if strings.Contains(line, "msg=\"Stage complete\"") {
				completed = strings.Contains(line, "duration_ms=")
			} else {
				started = strings.Contains(line, "level=INFO")
			}
		}
		assert.True(t, started, "start line for %s", stage)
		assert.True(t, completed, "completion line for %s", stage)
	}
	assert.Contains(t, logs.String(), "site_name=Helipad")
	assert.Contains(t, logs.String(), "docs_dir="+filepath.Join(f.root, "docs"))
}

func TestRun_SkipFlags(t *testing.T) {
	f := newFixture(t, false, true)
	require.NoError(t, f.gen.Run(context.Background(), Options{SkipSource: true, Serve: config.ServeNever}))
	require.Len(t, f.runner.recorded(), 1)

	g := newFixture(t, true, false)
	require.NoError(t, g.gen.Run(context.Background(), Options{SkipUser: true}))
	require.Len(t, g.runner.recorded(), 1)
	assert.Equal(t, "doxygen", g.runner.recorded()[0].Name)
}

func TestGenerateSourceDocs_MissingTemplate(t *testing.T) {
	f := newFixture(t, false, true)

	err := f.gen.Run(context.Background(), Options{Serve: config.ServeNever})
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryNotFound))
	assert.Contains(t, err.Error(), "missing Doxygen config: "+f.layout.Doxyfile)
	assert.Empty(t, f.runner.recorded(), "nothing may run when the template is missing")
}

func TestGenerateUserDocs_MissingConfig(t *testing.T) {
	f := newFixture(t, true, false)

	err := f.gen.Run(context.Background(), Options{Serve: config.ServeAlways})
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryNotFound))
	assert.Contains(t, err.Error(), "missing MkDocs config: "+f.layout.MkDocsConfig)
	require.Len(t, f.runner.recorded(), 1, "doxygen runs before the mkdocs check")
	assert.Empty(t, f.server.calls)
}

func TestRun_DoxygenFailureStopsRun(t *testing.T) {
	f := newFixture(t, true, true)
	f.runner.fail["doxygen"] = foundationerrors.ProcessError("command failed: doxygen").Build()

	err := f.gen.Run(context.Background(), Options{Serve: config.ServeAlways})
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryProcess))
	require.Len(t, f.runner.recorded(), 1)
	assert.Empty(t, f.server.calls)

	rec, ok := f.gen.Report().Stage(StageRunDoxygen)
	require.True(t, ok)
	assert.Error(t, rec.Err)
}

func TestRun_MkDocsBuildFailureSkipsServe(t *testing.T) {
	f := newFixture(t, true, true)
	f.runner.fail["mkdocs"] = foundationerrors.ProcessError("command failed: mkdocs build").Build()

	err := f.gen.Run(context.Background(), Options{Serve: config.ServeAlways})
	require.Error(t, err)
	assert.Empty(t, f.server.calls)
}

func TestGenerateUserDocs_ServeAlways(t *testing.T) {
	f := newFixture(t, false, true)
	f.cfg.MkDocs.DevAddr = "127.0.0.1:9001"

	require.NoError(t, f.gen.GenerateUserDocs(context.Background(), config.ServeAlways, false))

	require.Len(t, f.server.calls, 1)
	assert.Equal(t, "mkdocs serve --config-file "+f.layout.MkDocsConfig+" --dev-addr 127.0.0.1:9001", f.server.calls[0].String())
	assert.Equal(t, f.root, f.server.calls[0].Dir)
	_, ok := f.gen.Report().Stage(StageMkDocsServe)
	assert.True(t, ok)
}

func TestGenerateUserDocs_ServeAsk(t *testing.T) {
	for _, answer := range []bool{true, false} {
		f := newFixture(t, false, true)
		p := &fixedPrompter{answer: answer}
		f.gen.WithPrompter(p)

		require.NoError(t, f.gen.GenerateUserDocs(context.Background(), config.ServeAsk, false))
		assert.Len(t, p.asked, 1)
		if answer {
			assert.Len(t, f.server.calls, 1)
		} else {
			assert.Empty(t, f.server.calls)
		}
	}
}

func TestRun_DefaultConfigServesAfterBuild(t *testing.T) {
	f := newFixture(t, true, true)
	p := &fixedPrompter{}
	f.gen.WithPrompter(p)

	require.NoError(t, f.gen.Run(context.Background(), Options{Serve: f.cfg.MkDocs.Serve}))
	assert.Len(t, f.server.calls, 1)
	assert.Empty(t, p.asked, "the default mode serves without asking")

	g := newFixture(t, false, true)
	require.NoError(t, g.gen.Run(context.Background(), Options{SkipSource: true}))
	assert.Len(t, g.server.calls, 1, "an empty serve option falls back to the configured mode")
}

func TestGenerateUserDocs_InterruptAtPrompt(t *testing.T) {
	f := newFixture(t, false, true)
	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	f.gen.WithPrompter(NewPrompter(in, io.Discard, true))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.gen.GenerateUserDocs(ctx, config.ServeAsk, false) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryRuntime))
	case <-time.After(2 * time.Second):
		t.Fatal("GenerateUserDocs still waiting for an answer after cancel")
	}
	assert.Empty(t, f.server.calls)
}

func TestServe_ServerErrorPropagates(t *testing.T) {
	f := newFixture(t, false, true)
	f.server.err = foundationerrors.ProcessError("command failed: mkdocs serve").Build()

	err := f.gen.Serve(context.Background(), false)
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryProcess))
}

func TestServe_InterruptIsNotAnError(t *testing.T) {
	f := newFixture(t, false, true)
	ctx, cancel := context.WithCancel(context.Background())
	f.server.during = func(context.Context) { cancel() }
	f.server.outcome = process.OutcomeKilled

	require.NoError(t, f.gen.Serve(ctx, false))
}

func TestServe_WatchRegeneratesSourceDocs(t *testing.T) {
	old := rebuildDebounce
	rebuildDebounce = 20 * time.Millisecond
	t.Cleanup(func() { rebuildDebounce = old })

	f := newFixture(t, true, true)
	src := filepath.Join(f.root, "src")
	require.NoError(t, os.MkdirAll(src, 0o750))

	var rebuilt bool
	f.server.during = func(context.Context) {
		require.NoError(t, os.WriteFile(filepath.Join(src, "engine.cxx"), []byte("// changed\n"), 0o600))
		select {
		case cmd := <-f.runner.ran:
			rebuilt = cmd.Name == "doxygen"
		case <-time.After(10 * time.Second):
		}
	}

	require.NoError(t, f.gen.Serve(context.Background(), true))
	assert.True(t, rebuilt, "a source change while serving must rerun doxygen")

	_, err := os.Stat(f.layout.GeneratedDoxyfile())
	assert.NoError(t, err)
}

func TestServe_WatchWithoutSourceDirs(t *testing.T) {
	f := newFixture(t, true, true)
	require.NoError(t, f.gen.Serve(context.Background(), true))
	assert.Len(t, f.server.calls, 1)
}

func TestRenderDoxyfile_DoesNotWrite(t *testing.T) {
	f := newFixture(t, true, false)

	text, err := f.gen.RenderDoxyfile()
	require.NoError(t, err)
	assert.Contains(t, text, "INPUT = "+filepath.ToSlash(f.root)+"/src")

	_, statErr := os.Stat(f.layout.DoxygenOutput)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunStages_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	var report Report
	err := runStages(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), &report, []StageDef{
		{StageRunDoxygen, func(context.Context) error { called = true; return nil }},
	})
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryRuntime))
	assert.False(t, called)
	assert.Empty(t, report.Stages)
}
