package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/prompt"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Forget the stored session" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(cmd *kingpin.CmdClause) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env) int {
	if _, ok := env.Store.Get(); !ok {
		env.Infof("not logged in")
		return exitcode.Success
	}

	if _, err := env.Dashboard(prompt.Answer(false)).Logout(); err != nil {
		env.Errorf("failed to remove session: %v", err)
		return exitcode.AuthError
	}
	env.Infof("ok")
	return exitcode.Success
}
