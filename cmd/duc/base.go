package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	duc "github.com/ducflair/duc-sub001"
	"github.com/ducflair/duc-sub001/pkg/config"
	"github.com/ducflair/duc-sub001/pkg/logger"
)

// baseCommand carries what every subcommand needs: the filesystem, the UI,
// and the configuration and logger built from the -config flag.
type baseCommand struct {
	fs     afero.Fs
	ui     cli.Ui
	stderr io.Writer

	cfg  *config.Config
	log  zerolog.Logger
	logs *logger.LogData

	flagConfig string
}

// flagSet returns a flag set that already carries -config.
func (b *baseCommand) flagSet(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.StringVar(&b.flagConfig, "config", "", "Path to a YAML config file")
	return f
}

// parse parses args, loads the configuration and builds the logger. It
// returns the positional arguments.
func (b *baseCommand) parse(f *flag.FlagSet, args []string, positional int) ([]string, error) {
	if err := f.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	if f.NArg() != positional {
		return nil, fmt.Errorf("expected %d argument(s), got %d", positional, f.NArg())
	}

	cfg := config.NewConfig()
	if b.flagConfig != "" {
		var err error
		if cfg, err = config.Load(b.fs, b.flagConfig); err != nil {
			return nil, err
		}
	}
	b.cfg = cfg

	build := logger.New().FromBuffer(b.stderr).WithLevel(cfg.Level()).WithComponent("duc")
	if cfg.LogFile != "" {
		build = build.FromPath(cfg.LogFile)
	}
	logs, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}
	b.logs = logs
	b.log = logs.Logger
	return f.Args(), nil
}

func (b *baseCommand) close() {
	if b.logs != nil {
		b.logs.Close()
	}
}

// open reads and checks a document with the configured limits.
func (b *baseCommand) open(path string) (*duc.File, error) {
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, err
	}
	f, err := duc.Open(data,
		duc.WithLogger(b.log),
		duc.WithLimits(b.cfg.DecodeLimits()),
		duc.WithMaxHops(b.cfg.History.MaxHops),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (b *baseCommand) write(path string, data []byte) error {
	if err := afero.WriteFile(b.fs, path, data, 0o644); err != nil {
		return err
	}
	b.log.Debug().Str("path", path).Int("bytes", len(data)).Msg("wrote output")
	return nil
}

// fail reports err and returns the exit code of a failed command.
func (b *baseCommand) fail(err error) int {
	b.ui.Error(err.Error())
	return 1
}

func helpText(usage string, f *flag.FlagSet) string {
	var sb strings.Builder
	sb.WriteString(usage)
	sb.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&sb, "  -%s\n      %s\n", fl.Name, fl.Usage)
	})
	return strings.TrimRight(sb.String(), "\n")
}
