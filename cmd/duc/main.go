// Command duc inspects and maintains duc drawing documents.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

const version = "0.4.0"

func main() {
	os.Exit(run(os.Args, afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run executes the CLI with the given arguments and returns the exit code.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	cliName := "duc"
	if len(args) > 0 {
		args = args[1:]
	}
	if len(args) == 1 && (args[0] == "-version" || args[0] == "-v") {
		args = []string{"version"}
	}

	ui := &cli.BasicUi{
		Writer:      stdout,
		ErrorWriter: stderr,
	}
	base := &baseCommand{fs: fs, ui: ui, stderr: stderr}

	c := &cli.CLI{
		Name:        cliName,
		Args:        args,
		Version:     version,
		Commands:    commands(base),
		HelpWriter:  stdout,
		ErrorWriter: stderr,
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return exitCode
}

func commands(base *baseCommand) map[string]cli.CommandFactory {
	factory := func(c cli.Command) cli.CommandFactory {
		return func() (cli.Command, error) { return c, nil }
	}
	return map[string]cli.CommandFactory{
		"info":        factory(&infoCommand{baseCommand: base}),
		"files":       factory(&filesCommand{baseCommand: base}),
		"extract":     factory(&extractCommand{baseCommand: base}),
		"validate":    factory(&validateCommand{baseCommand: base}),
		"history":     factory(&historyCommand{baseCommand: base}),
		"reconstruct": factory(&reconstructCommand{baseCommand: base}),
		"prune":       factory(&pruneCommand{baseCommand: base}),
		"archive":     factory(&archiveCommand{baseCommand: base}),
		"restore":     factory(&restoreCommand{baseCommand: base}),
		"version": func() (cli.Command, error) {
			return &versionCommand{ui: base.ui}, nil
		},
	}
}

type versionCommand struct {
	ui cli.Ui
}

func (c *versionCommand) Synopsis() string { return "Print the duc tool version" }
func (c *versionCommand) Help() string     { return "Usage: duc version" }

func (c *versionCommand) Run([]string) int {
	c.ui.Output("duc " + version)
	return 0
}
