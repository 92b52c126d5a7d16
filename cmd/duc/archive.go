package main

import (
	"context"
	"flag"
	"fmt"

	duc "github.com/ducflair/duc-sub001"
	"github.com/ducflair/duc-sub001/pkg/storage"
)

// storeFlags is shared by the commands that talk to the history store.
type storeFlags struct {
	flagDB string
}

func (s *storeFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.flagDB, "db", "", "SQLite history store; defaults to the configured storage path.")
}

func (b *baseCommand) openStore(ctx context.Context, s *storeFlags) (*storage.Store, error) {
	path := s.flagDB
	if path == "" {
		path = b.cfg.Storage.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no history store: set -db or storage.path")
	}
	return storage.Open(ctx, path,
		storage.WithLogger(b.log),
		storage.WithBusyTimeout(b.cfg.Storage.BusyTimeout),
	)
}

type archiveCommand struct {
	*baseCommand
	storeFlags
}

func (c *archiveCommand) Synopsis() string {
	return "Copy the history of a duc document into a history store"
}

func (c *archiveCommand) Help() string {
	return helpText(`Usage: duc archive [options] FILE

  Replaces the contents of the history store with the version graph of the
  document.`, c.flags())
}

func (c *archiveCommand) flags() *flag.FlagSet {
	f := c.flagSet("archive")
	c.register(f)
	return f
}

func (c *archiveCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}
	g := f.History()
	if g == nil {
		return c.fail(fmt.Errorf("%s has no history", args[0]))
	}

	ctx := context.Background()
	store, err := c.openStore(ctx, &c.storeFlags)
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	if err := store.ReplaceGraph(ctx, g); err != nil {
		return c.fail(err)
	}
	c.ui.Output(fmt.Sprintf("archived %d version(s) to %s", g.Len(), store.Path()))
	return 0
}

type restoreCommand struct {
	*baseCommand
	storeFlags

	flagOut string
}

func (c *restoreCommand) Synopsis() string {
	return "Attach the history from a history store to a duc document"
}

func (c *restoreCommand) Help() string {
	return helpText(`Usage: duc restore [options] FILE

  Replaces the version graph of the document with the one in the history
  store. The document is rewritten in place unless -out is given.`, c.flags())
}

func (c *restoreCommand) flags() *flag.FlagSet {
	f := c.flagSet("restore")
	c.register(f)
	f.StringVar(&c.flagOut, "out", "", "Output path.")
	return f
}

func (c *restoreCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}
	doc, err := f.Document()
	if err != nil {
		return c.fail(err)
	}

	ctx := context.Background()
	store, err := c.openStore(ctx, &c.storeFlags)
	if err != nil {
		return c.fail(err)
	}
	defer store.Close()

	g, err := store.LoadGraph(ctx)
	if err != nil {
		return c.fail(err)
	}
	doc.VersionGraph = g

	out, err := duc.Serialize(doc)
	if err != nil {
		return c.fail(err)
	}
	path := c.flagOut
	if path == "" {
		path = args[0]
	}
	if err := c.write(path, out); err != nil {
		return c.fail(err)
	}
	c.ui.Output(fmt.Sprintf("restored %d version(s) into %s", g.Len(), path))
	return 0
}
