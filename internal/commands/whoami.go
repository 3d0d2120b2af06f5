package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the signed-in user's name.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show who is logged in" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(cmd *kingpin.CmdClause) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env) int {
	sess, _ := env.Store.Get()
	name := sess.DisplayName
	if name == "" {
		name = "(unknown)"
	}
	env.Printf("Logged in as %s", name)
	return exitcode.Success
}
