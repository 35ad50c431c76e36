// Command slate edits and inspects shoot-day schedule documents.
package main

import (
	"os"

	"github.com/roach88/slate/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
