package main

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ducflair/duc-sub001/pkg/history"
	"github.com/ducflair/duc-sub001/pkg/validate"
)

type validateCommand struct {
	*baseCommand

	flagEnvelope float64
}

func (c *validateCommand) Synopsis() string {
	return "Check a duc document for structural and coordinate problems"
}

func (c *validateCommand) Help() string {
	return helpText(`Usage: duc validate [options] FILE

  Reports duplicate or dangling references, invalid geometry, elements
  outside the coordinate envelope and inconsistent history. Nothing is
  corrected.`, c.flags())
}

func (c *validateCommand) flags() *flag.FlagSet {
	f := c.flagSet("validate")
	f.Float64Var(&c.flagEnvelope, "envelope", 0, "Half extent of the coordinate envelope; defaults to the configured value.")
	return f
}

func (c *validateCommand) Run(args []string) int {
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

	envelope := c.cfg.EnvelopeBounds()
	if c.flagEnvelope > 0 {
		envelope.MinX, envelope.MinY = -c.flagEnvelope, -c.flagEnvelope
		envelope.MaxX, envelope.MaxY = c.flagEnvelope, c.flagEnvelope
	}

	var result *multierror.Error
	result = multierror.Append(result, doc.Validate())
	result = multierror.Append(result, validate.DocumentBounds(doc, envelope))
	result = multierror.Append(result, history.Verify(doc.VersionGraph, history.WithMaxHops(c.cfg.History.MaxHops)))

	if err := result.ErrorOrNil(); err != nil {
		for _, problem := range result.Errors {
			c.ui.Error(problem.Error())
		}
		c.ui.Error(fmt.Sprintf("%d problem(s) found", len(result.Errors)))
		return 1
	}
	c.ui.Output("ok")
	return 0
}
