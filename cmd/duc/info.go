package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"sort"

	"github.com/ducflair/duc-sub001/pkg/models"
	"github.com/ducflair/duc-sub001/pkg/validate"
)

type infoCommand struct {
	*baseCommand

	flagJSON bool
}

func (c *infoCommand) Synopsis() string {
	return "Summarize a duc document"
}

func (c *infoCommand) Help() string {
	return helpText(`Usage: duc info [options] FILE

  Prints the structure of a document: element counts by kind, attachments,
  stacking entities and history. File payloads are never decoded.`, c.flags())
}

func (c *infoCommand) flags() *flag.FlagSet {
	f := c.flagSet("info")
	f.BoolVar(&c.flagJSON, "json", false, "Print the document as JSON, without file payloads.")
	return f
}

func (c *infoCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}
	doc, err := f.Structure()
	if err != nil {
		return c.fail(err)
	}

	if c.flagJSON {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return c.fail(err)
		}
		c.ui.Output(string(out))
		return 0
	}
	for _, line := range summarize(doc) {
		c.ui.Output(line)
	}
	return 0
}

func summarize(doc *models.DucFile) []string {
	active := doc.ActiveElements()
	lines := []string{
		"type: " + doc.Type,
		"version: " + doc.Version,
		"source: " + doc.Source,
		fmt.Sprintf("elements: %d (%d active)", len(doc.Elements), len(active)),
	}

	counts := make(map[string]int)
	for _, e := range doc.Elements {
		counts[e.Kind().String()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		lines = append(lines, fmt.Sprintf("  %s: %d", k, counts[k]))
	}

	lines = append(lines,
		fmt.Sprintf("files: %d", doc.Files.Len()),
		fmt.Sprintf("blocks: %d", len(doc.Blocks)),
		fmt.Sprintf("groups: %d", len(doc.Groups)),
		fmt.Sprintf("layers: %d", len(doc.Layers)),
		fmt.Sprintf("regions: %d", len(doc.Regions)),
		fmt.Sprintf("dictionary: %d", len(doc.Dictionary)),
	)

	if extent := validate.Extent(doc); extent.IsEmpty() {
		lines = append(lines, "extent: empty")
	} else {
		lines = append(lines, fmt.Sprintf("extent: (%g, %g)-(%g, %g)", extent.MinX, extent.MinY, extent.MaxX, extent.MaxY))
	}

	if g := doc.VersionGraph; g != nil && g.Len() > 0 {
		lines = append(lines, fmt.Sprintf("history: %d checkpoint(s), %d delta(s), latest %s",
			len(g.Checkpoints), len(g.Deltas), g.LatestVersionID))
	} else {
		lines = append(lines, "history: none")
	}
	return lines
}
