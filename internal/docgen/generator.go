package docgen

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/doctool/internal/config"
	"git.home.luguber.info/inful/doctool/internal/doxygen"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
	"git.home.luguber.info/inful/doctool/internal/mkdocs"
	"git.home.luguber.info/inful/doctool/internal/process"
	"git.home.luguber.info/inful/doctool/internal/workspace"
)

// Server runs the long-lived preview server until ctx is cancelled.
type Server interface {
	Supervise(ctx context.Context, cmd process.Command) (process.Outcome, error)
}

// Options selects what Run does.
type Options struct {
	SkipSource bool
	SkipUser   bool
	// Serve is the serve decision; empty selects the configured mode.
	Serve config.ServeMode
	// Watch regenerates the source docs while the preview server runs.
	Watch bool
}

// Generator runs the documentation steps for one repository.
type Generator struct {
	layout   workspace.Layout
	cfg      *config.Config
	runner   process.Runner
	server   Server
	prompter Prompter
	logger   *slog.Logger
	report   Report
}

// NewGenerator wires a generator. cfg must have been loaded (defaults applied).
func NewGenerator(layout workspace.Layout, cfg *config.Config, runner process.Runner, server Server) *Generator {
	return &Generator{
		layout:   layout,
		cfg:      cfg,
		runner:   runner,
		server:   server,
		prompter: NewTerminalPrompter(),
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithPrompter replaces the terminal prompter used for ServeAsk.
func (g *Generator) WithPrompter(p Prompter) *Generator {
	if p != nil {
		g.prompter = p
	}
	return g
}

// Report returns the stages executed so far.
func (g *Generator) Report() *Report { return &g.report }

// Run generates the source docs and then the user docs.
func (g *Generator) Run(ctx context.Context, opts Options) error {
	if !opts.SkipSource {
		if err := g.GenerateSourceDocs(ctx); err != nil {
			return err
		}
	}
	if !opts.SkipUser {
		return g.GenerateUserDocs(ctx, opts.Serve, opts.Watch)
	}
	return nil
}

func (g *Generator) templater() *doxygen.Templater {
	project := doxygen.Project{
		Name:        g.cfg.ProjectName(g.layout.Root),
		Version:     g.cfg.Project.Version,
		Description: g.cfg.Project.Description,
	}
	return doxygen.NewTemplater(g.layout, project, g.cfg.Doxygen.Placeholders).WithLogger(g.logger)
}

// PrepareDoxyfile writes the generated Doxygen config and returns its path.
func (g *Generator) PrepareDoxyfile() (string, error) {
	return g.templater().Prepare()
}

// RenderDoxyfile returns the generated Doxygen config without writing anything.
func (g *Generator) RenderDoxyfile() (string, error) {
	return g.templater().RenderTemplate()
}

// GenerateSourceDocs templates the Doxyfile and runs doxygen on it from the repository root.
func (g *Generator) GenerateSourceDocs(ctx context.Context) error {
	if err := workspace.RequireFile(g.layout.Doxyfile, "Doxygen config"); err != nil {
		return err
	}

	var generated string
	return runStages(ctx, g.logger, &g.report, []StageDef{
		{StagePrepareDoxyfile, func(context.Context) error {
			g.logger.Info("Preparing Doxyfile", logfields.Stage(string(StagePrepareDoxyfile)), logfields.Path(g.layout.Doxyfile))
			var err error
			generated, err = g.PrepareDoxyfile()
			return err
		}},
		{StageRunDoxygen, func(ctx context.Context) error {
			g.logger.Info("Running doxygen", logfields.Stage(string(StageRunDoxygen)), logfields.Path(generated))
			return g.runner.Run(ctx, process.Command{
				Name: g.cfg.Doxygen.Binary,
				Args: []string{generated},
				Dir:  g.layout.Root,
			})
		}},
	})
}

func (g *Generator) mkdocsTool() mkdocs.Tool {
	return mkdocs.Tool{
		Binary:     g.cfg.MkDocs.Binary,
		ConfigFile: g.layout.MkDocsConfig,
		Dir:        g.layout.Root,
		DevAddr:    g.cfg.MkDocs.DevAddr,
	}
}

// GenerateUserDocs runs mkdocs build, then serves the site according to mode.
func (g *Generator) GenerateUserDocs(ctx context.Context, mode config.ServeMode, watch bool) error {
	if err := workspace.RequireFile(g.layout.MkDocsConfig, "MkDocs config"); err != nil {
		return err
	}

	tool := g.mkdocsTool()
	err := runStages(ctx, g.logger, &g.report, []StageDef{
		{StageMkDocsBuild, func(ctx context.Context) error {
			g.logger.Info("Running mkdocs build", logfields.Stage(string(StageMkDocsBuild)), logfields.Path(g.layout.MkDocsConfig))
			return g.runner.Run(ctx, tool.BuildCommand())
		}},
	})
	if err != nil {
		return err
	}
	if site, ierr := mkdocs.Inspect(g.layout.MkDocsConfig); ierr == nil {
		g.logger.Info("User documentation built",
			"site_name", site.Name, "docs_dir", site.DocsDir, "site_dir", site.SiteDir)
	} else {
		g.logger.Debug("Could not read mkdocs.yml", logfields.Error(ierr))
	}

	serve, err := g.shouldServe(ctx, mode)
	if err != nil {
		return err
	}
	if !serve {
		return nil
	}
	return g.Serve(ctx, watch)
}

func (g *Generator) shouldServe(ctx context.Context, mode config.ServeMode) (bool, error) {
	if mode == "" {
		mode = g.cfg.MkDocs.Serve
	}
	switch mode {
	case config.ServeAlways, "":
		return true, nil
	case config.ServeNever:
		return false, nil
	case config.ServeAsk:
		ok, err := g.prompter.Confirm(ctx, "Serve the documentation locally?")
		if err != nil {
			if _, classified := foundationerrors.AsClassified(err); classified {
				return false, err
			}
			return false, foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "failed to read answer").Fatal().Build()
		}
		return ok, nil
	default:
		return false, foundationerrors.ValidationError("invalid serve mode: " + string(mode)).Build()
	}
}

// Serve runs mkdocs serve in the foreground until it exits or ctx is cancelled. Cancellation
// stops the server gracefully and is not an error.
func (g *Generator) Serve(ctx context.Context, watch bool) error {
	if err := workspace.RequireFile(g.layout.MkDocsConfig, "MkDocs config"); err != nil {
		return err
	}

	tool := g.mkdocsTool()
	addr := tool.DevAddr
	if addr == "" {
		addr = mkdocs.DefaultDevAddr
		if site, err := mkdocs.Inspect(g.layout.MkDocsConfig); err == nil {
			addr = site.DevAddr
		}
	}

	if watch {
		watchCtx, stopWatch := context.WithCancel(ctx)
		wait, err := g.watchSources(watchCtx)
		if err != nil {
			stopWatch()
			return err
		}
		defer func() {
			stopWatch()
			wait()
		}()
	}

	return runStages(ctx, g.logger, &g.report, []StageDef{
		{StageMkDocsServe, func(ctx context.Context) error {
			g.logger.Info("Starting mkdocs serve (press Ctrl-C to stop)", logfields.Stage(string(StageMkDocsServe)), "url", "http://"+addr)
			outcome, err := g.server.Supervise(ctx, tool.ServeCommand())
			if err != nil {
				return err
			}
			g.logger.Info("mkdocs server stopped", logfields.Outcome(string(outcome)))
			return nil
		}},
	})
}
