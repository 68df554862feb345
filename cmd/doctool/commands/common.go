package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/doctool/internal/config"
	"git.home.luguber.info/inful/doctool/internal/docgen"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
	"git.home.luguber.info/inful/doctool/internal/process"
	"git.home.luguber.info/inful/doctool/internal/workspace"
)

// Global carries per-invocation state into every command.
type Global struct {
	Logger *slog.Logger
	RunID  string
	// Out receives command output meant for the user (not logs).
	Out io.Writer
	// Prompter overrides the terminal prompter when non-nil.
	Prompter docgen.Prompter
}

// NewGlobal assigns the run ID and installs a default logger carrying it, so packages that
// log through slog.Default tag their lines too. Call it after kong has parsed the flags.
func NewGlobal(out io.Writer) *Global {
	runID := uuid.NewString()
	logger := slog.Default().With(logfields.RunID(runID))
	slog.SetDefault(logger)
	return &Global{Logger: logger, RunID: runID, Out: out}
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (optional)" default:"${config_path}" type:"path"`
	Root        string           `short:"r" help:"Repository root (defaults to the enclosing git work tree)" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	GracePeriod time.Duration    `name:"grace-period" help:"How long the preview server gets to stop after Ctrl-C before it is killed (overrides config)"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	All      AllCmd      `cmd:"" default:"withargs" help:"Generate source docs with Doxygen, then user docs with MkDocs"`
	Source   SourceCmd   `cmd:"" help:"Generate source docs with Doxygen"`
	User     UserCmd     `cmd:"" help:"Build user docs with MkDocs and optionally serve them"`
	Serve    ServeCmd    `cmd:"" help:"Serve user docs with mkdocs serve (no build)"`
	Doxyfile DoxyfileCmd `cmd:"" help:"Write the generated Doxyfile without running doxygen"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// Vars are the kong interpolation variables the CLI struct tags refer to.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version":     version,
		"config_path": config.DefaultPath,
	}
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// session is the resolved state shared by the documentation commands.
type session struct {
	cfg    *config.Config
	layout workspace.Layout
	gen    *docgen.Generator
}

// newSession loads the configuration, resolves the repository root and wires a generator.
func newSession(g *Global, c *CLI) (*session, error) {
	logger := g.logger()

	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}

	explicit := c.Root
	if explicit == "" {
		explicit = cfg.Paths.Root
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to determine working directory").Fatal().Build()
	}
	root, err := workspace.ResolveRoot(explicit, cwd)
	if err != nil {
		return nil, err
	}
	layout := workspace.NewLayout(root, cfg.Paths)
	logger.Debug("Resolved repository layout", logfields.Path(root),
		"doxyfile", layout.Doxyfile, "mkdocs_config", layout.MkDocsConfig, "output", layout.DoxygenOutput)

	grace := c.GracePeriod
	if grace <= 0 {
		if grace, err = cfg.GracePeriod(); err != nil {
			return nil, err
		}
	}

	gen := docgen.NewGenerator(layout, cfg, process.NewExecRunner(logger), process.NewSupervisor(grace, logger)).
		WithLogger(logger)
	if g != nil && g.Prompter != nil {
		gen.WithPrompter(g.Prompter)
	}
	return &session{cfg: cfg, layout: layout, gen: gen}, nil
}

// resolveServeMode returns the flag value when set, otherwise the configured mode.
func resolveServeMode(flag string, cfg *config.Config) (config.ServeMode, error) {
	if flag == "" {
		return cfg.MkDocs.Serve, nil
	}
	mode := config.NormalizeServeMode(flag)
	if mode == "" {
		return "", foundationerrors.ValidationError("invalid --serve value: " + flag + " (accepted: " + strings.Join(config.ServeModeSpellings(), ", ") + ")").Build()
	}
	return mode, nil
}
