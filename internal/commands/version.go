package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
)

// Version is the CLI version.
const Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(cmd *kingpin.CmdClause) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env) int {
	env.Printf("%s %s", config.AppName, Version)
	return exitcode.Success
}
