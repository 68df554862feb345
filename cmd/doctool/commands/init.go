package commands

import (
	"git.home.luguber.info/inful/doctool/internal/config"
	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// InitCmd writes an example configuration file at --config.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, c *CLI) error {
	g.logger().Info("Initializing configuration", logfields.Path(c.Config), "force", i.Force)
	return config.Init(c.Config, i.Force)
}
