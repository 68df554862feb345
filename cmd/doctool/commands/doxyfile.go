package commands

import (
	"fmt"

	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// DoxyfileCmd writes (or prints) the generated Doxyfile. Useful to inspect the substitution.
type DoxyfileCmd struct {
	Stdout bool `help:"Print the generated Doxyfile instead of writing it"`
}

func (d *DoxyfileCmd) Run(g *Global, c *CLI) error {
	s, err := newSession(g, c)
	if err != nil {
		return err
	}

	if d.Stdout {
		text, err := s.gen.RenderDoxyfile()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(g.out(), text)
		return err
	}

	path, err := s.gen.PrepareDoxyfile()
	if err != nil {
		return err
	}
	g.logger().Info("Generated Doxyfile written", logfields.Path(path))
	_, err = fmt.Fprintln(g.out(), path)
	return err
}
