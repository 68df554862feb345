package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/doctool/internal/docgen"
)

// AllCmd runs both documentation steps; it is the default command.
type AllCmd struct {
	Serve      string `help:"Serve the user docs after building: ask, always or never (default from config)"`
	Watch      bool   `help:"While serving, regenerate source docs when watched sources change"`
	SkipSource bool   `name:"skip-source" help:"Do not run Doxygen"`
	SkipUser   bool   `name:"skip-user" help:"Do not run MkDocs"`
}

func (a *AllCmd) Run(g *Global, c *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := newSession(g, c)
	if err != nil {
		return err
	}
	mode, err := resolveServeMode(a.Serve, s.cfg)
	if err != nil {
		return err
	}
	if err := s.gen.Run(ctx, docgen.Options{
		SkipSource: a.SkipSource,
		SkipUser:   a.SkipUser,
		Serve:      mode,
		Watch:      a.Watch,
	}); err != nil {
		return err
	}
	logDone(g, s)
	return nil
}

// SourceCmd generates the source docs only.
type SourceCmd struct{}

func (sc *SourceCmd) Run(g *Global, c *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := newSession(g, c)
	if err != nil {
		return err
	}
	if err := s.gen.GenerateSourceDocs(ctx); err != nil {
		return err
	}
	logDone(g, s)
	return nil
}

// UserCmd builds the user docs and optionally serves them.
type UserCmd struct {
	Serve string `help:"Serve the user docs after building: ask, always or never (default from config)"`
	Watch bool   `help:"While serving, regenerate source docs when watched sources change"`
}

func (u *UserCmd) Run(g *Global, c *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := newSession(g, c)
	if err != nil {
		return err
	}
	mode, err := resolveServeMode(u.Serve, s.cfg)
	if err != nil {
		return err
	}
	if err := s.gen.GenerateUserDocs(ctx, mode, u.Watch); err != nil {
		return err
	}
	logDone(g, s)
	return nil
}

// ServeCmd serves the user docs without building them first.
type ServeCmd struct {
	Watch bool `help:"Regenerate source docs when watched sources change"`
}

func (sv *ServeCmd) Run(g *Global, c *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, err := newSession(g, c)
	if err != nil {
		return err
	}
	return s.gen.Serve(ctx, sv.Watch)
}

func logDone(g *Global, s *session) {
	attrs := []any{"stages", len(s.gen.Report().Stages)}
	for _, st := range s.gen.Report().Stages {
		attrs = append(attrs, slog.Float64(string(st.Name)+"_ms", float64(st.Duration.Microseconds())/1000))
	}
	g.logger().Info("Documentation generated", attrs...)
}
