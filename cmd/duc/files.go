package main

import (
	"flag"
	"fmt"
	"time"
)

type filesCommand struct {
	*baseCommand
}

func (c *filesCommand) Synopsis() string {
	return "List the attachments of a duc document"
}

func (c *filesCommand) Help() string {
	return helpText(`Usage: duc files [options] FILE

  Lists every attachment with its MIME type and payload size without
  decoding the rest of the document.`, c.flags())
}

func (c *filesCommand) flags() *flag.FlagSet {
	return c.flagSet("files")
}

func (c *filesCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}
	files, err := f.ExternalFiles()
	if err != nil {
		return c.fail(err)
	}
	for _, m := range files {
		c.ui.Output(fmt.Sprintf("%s\t%s\t%d\t%s", m.ID, m.MimeType, m.Size,
			time.UnixMilli(m.Created).UTC().Format(time.RFC3339)))
	}
	return 0
}

type extractCommand struct {
	*baseCommand

	flagID  string
	flagOut string
}

func (c *extractCommand) Synopsis() string {
	return "Write one attachment of a duc document to a file"
}

func (c *extractCommand) Help() string {
	return helpText(`Usage: duc extract -id ID -out PATH [options] FILE

  Copies the payload of one attachment out of a document.`, c.flags())
}

func (c *extractCommand) flags() *flag.FlagSet {
	f := c.flagSet("extract")
	f.StringVar(&c.flagID, "id", "", "(Required) Attachment id.")
	f.StringVar(&c.flagOut, "out", "", "(Required) Output path.")
	return f
}

func (c *extractCommand) Run(args []string) int {
	args, err := c.parse(c.flags(), args, 1)
	if err != nil {
		return c.fail(err)
	}
	defer c.close()

	if c.flagID == "" || c.flagOut == "" {
		return c.fail(fmt.Errorf("id and out flags are required"))
	}

	f, err := c.open(args[0])
	if err != nil {
		return c.fail(err)
	}
	file, ok, err := f.ExternalFile(c.flagID)
	if err != nil {
		return c.fail(err)
	}
	if !ok {
		return c.fail(fmt.Errorf("attachment %q not found", c.flagID))
	}
	if file.Data == nil {
		return c.fail(fmt.Errorf("attachment %q has no payload", c.flagID))
	}
	if err := c.write(c.flagOut, file.Data); err != nil {
		return c.fail(err)
	}
	c.ui.Output(fmt.Sprintf("wrote %d bytes (%s) to %s", len(file.Data), file.MimeType, c.flagOut))
	return 0
}
