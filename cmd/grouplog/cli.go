package main

import (
	"github.com/alecthomas/kong"

	"github.com/lixenwraith/grouplog"
)

// CLI is the top-level command-line interface
type CLI struct {
	Config    string   `help:"TOML config file, read from its [grouplog] section" short:"c" type:"path"`
	Set       []string `help:"Configuration override as key=value, repeatable" short:"o" placeholder:"KEY=VALUE"`
	Directory string   `help:"Snapshot directory, overrides the config" short:"d" type:"path"`

	Demo   DemoCmd   `cmd:"" default:"withargs" help:"Log sample payloads through a group and persist them"`
	Stress StressCmd `cmd:"" help:"Log and save concurrently, then verify snapshot rotation"`
}

// run parses args and executes the selected command
func run(exit func(code int), args ...string) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("grouplog"),
		kong.Description("Grouped loggers with JSON snapshot persistence"),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return ktx.Run(&cli)
}

// runtime builds the runtime from the config file, overrides and flags
func (c *CLI) runtime() (*grouplog.Runtime, error) {
	cfg := grouplog.DefaultConfig()
	if c.Config != "" {
		loaded, err := grouplog.NewConfigFromFile(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	b := grouplog.NewBuilder().Config(cfg).Override(c.Set...)
	if c.Directory != "" {
		b = b.Directory(c.Directory)
	}
	return b.Build()
}
