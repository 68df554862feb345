package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doctool/cmd/doctool/commands"
	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("doctool"),
		kong.Description("Generate Doxygen source docs and MkDocs user docs for the repository."),
		commands.Vars(version.String()),
		kong.UsageOnError(),
	)

	// AfterApply has installed the level-filtered logger by now.
	global := commands.NewGlobal(os.Stdout)

	if err := parser.Run(global, cli); err != nil {
		foundationerrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
