package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"time"

	duc "github.com/ducflair/duc-sub001"
	"github.com/ducflair/duc-sub001/pkg/history"
	"github.com/ducflair/duc-sub001/pkg/models"
)

type historyCommand struct {
	*baseCommand

	flagVerify bool
}

func (c *historyCommand) Synopsis() string {
	return "List the recorded versions of a duc document"
}

func (c *historyCommand) Help() string {
	return helpText(`Usage: duc history [options] FILE

  Lists checkpoints and deltas oldest first. Markers: * latest version,
  u user checkpoint.`, c.flags())
}

func (c *historyCommand) flags() *flag.FlagSet {
	f := c.flagSet("history")
	f.BoolVar(&c.flagVerify, "verify", false, "Also check that every version can be reconstructed.")
	return f
}

func (c *historyCommand) Run(args []string) int {
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
	if g == nil || g.Len() == 0 {
		c.ui.Output("no history")
		return 0
	}

	for _, line := range timeline(g) {
		c.ui.Output(line)
	}
	c.ui.Output(fmt.Sprintf("%d version(s), %d bytes", g.Len(), g.ComputeTotalSize()))

	if c.flagVerify {
		if err := history.Verify(g, history.WithMaxHops(c.cfg.History.MaxHops)); err != nil {
			return c.fail(err)
		}
		c.ui.Output("history ok")
	}
	return 0
}

// timeline renders every node of g ordered by timestamp, then id.
func timeline(g *models.VersionGraph) []string {
	nodes := g.Nodes()
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := nodes[ids[i]].Base(), nodes[ids[j]].Base()
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.ID < b.ID
	})

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		n := nodes[id]
		base := n.Base()
		kind := "delta"
		if n.Checkpoint != nil {
			kind = "checkpoint"
		}
		marker := " "
		switch id {
		case g.LatestVersionID:
			marker = "*"
		case g.UserCheckpointVersionID:
			marker = "u"
		}
		parent := base.ParentID
		if parent == "" {
			parent = "-"
		}
		line := fmt.Sprintf("%s %s\t%s\t%s\t%s\t%d", marker, id, kind, parent,
			base.Time().UTC().Format(time.RFC3339), n.SizeBytes())
		if base.Description != "" {
			line += "\t" + base.Description
		}
		lines = append(lines, line)
	}
	return lines
}

type reconstructCommand struct {
	*baseCommand

	flagVersion string
	flagOut     string
	flagJSON    bool
}

func (c *reconstructCommand) Synopsis() string {
	return "Materialize a recorded version of a duc document"
}

func (c *reconstructCommand) Help() string {
	return helpText(`Usage: duc reconstruct -version ID -out PATH [options] FILE

  Rebuilds the document as it was at a recorded version and writes it as a
  duc document, or as JSON with -json.`, c.flags())
}

func (c *reconstructCommand) flags() *flag.FlagSet {
	f := c.flagSet("reconstruct")
	f.StringVar(&c.flagVersion, "version", "", "Version id; defaults to the latest version.")
	f.StringVar(&c.flagOut, "out", "", "(Required) Output path.")
	f.BoolVar(&c.flagJSON, "json", false, "Write the JSON projection instead of a duc document.")
	return f
}

func (c *reconstructCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	if c.flagOut == "" {
		return c.fail(fmt.Errorf("out flag is required"))
	}
	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}

	versionID := c.flagVersion
	if versionID == "" {
		if g := f.History(); g != nil {
			versionID = g.LatestVersionID
		}
	}
	doc, err := f.Version(versionID)
	if err != nil {
		return c.fail(err)
	}

	var out []byte
	if c.flagJSON {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = duc.Serialize(doc)
	}
	if err != nil {
		return c.fail(err)
	}
	if err := c.write(c.flagOut, out); err != nil {
		return c.fail(err)
	}
	c.ui.Output(fmt.Sprintf("version %s written to %s", versionID, c.flagOut))
	return 0
}

type pruneCommand struct {
	*baseCommand

	flagLevel         string
	flagKeepPreserved bool
	flagOut           string
}

func (c *pruneCommand) Synopsis() string {
	return "Drop old history from a duc document"
}

func (c *pruneCommand) Help() string {
	return helpText(`Usage: duc prune [options] FILE

  Removes versions older than the retention window of the pruning level.
  The latest version, the user checkpoint and everything needed to rebuild
  a kept version survive. The document is rewritten in place unless -out
  is given.`, c.flags())
}

func (c *pruneCommand) flags() *flag.FlagSet {
	f := c.flagSet("prune")
	f.StringVar(&c.flagLevel, "level", "", "conservative, balanced or aggressive; defaults to the document's level, then the configured one.")
	f.BoolVar(&c.flagKeepPreserved, "keep-only-preserved", false, "Keep only the latest version and the user checkpoint, with their chains.")
	f.StringVar(&c.flagOut, "out", "", "Output path.")
	return f
}

func (c *pruneCommand) Run(args []string) int {
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
	if doc.VersionGraph == nil {
		c.ui.Output("no history")
		return 0
	}

	opts := history.PruneOptions{
		KeepOnlyPreserved: c.flagKeepPreserved,
		MaxHops:           c.cfg.History.MaxHops,
	}
	switch {
	case c.flagLevel != "":
		level, err := models.ParsePruningLevel(c.flagLevel)
		if err != nil {
			return c.fail(err)
		}
		opts.Level = &level
	case doc.VersionGraph.Metadata.PruningLevel == nil:
		level, err := c.cfg.PruningLevel()
		if err != nil {
			return c.fail(err)
		}
		opts.Level = &level
	}

	result, err := history.Prune(doc.VersionGraph, opts)
	if err != nil {
		return c.fail(err)
	}
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

	c.log.Info().
		Int("checkpoints", len(result.RemovedCheckpoints)).
		Int("deltas", len(result.RemovedDeltas)).
		Int64("freed", result.FreedBytes).
		Msg("pruned history")
	c.ui.Output(fmt.Sprintf("removed %d version(s), freed %d bytes", result.Removed(), result.FreedBytes))
	return 0
}
