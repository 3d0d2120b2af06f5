package commands

import (
	"context"
	"errors"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/prompt"
	"taskmgr/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	id  string
	yes bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = RmCmd{}
	cmd.Arg("id", "Task ID").Required().StringVar(&c.id)
	cmd.Flag("yes", "Do not ask for confirmation").Short('y').BoolVar(&c.yes)
}

func (c *RmCmd) Run(ctx context.Context, env *Env) int {
	var confirmer prompt.Confirmer = env.Terminal()
	if c.yes {
		confirmer = prompt.Answer(true)
	}

	deleted, err := env.Dashboard(confirmer).Form().Delete(ctx, service.TaskID(c.id))
	if errors.Is(err, prompt.ErrNoInput) {
		env.Errorf("no confirmation given (use --yes)")
		return exitcode.UserError
	}
	if err != nil {
		return fail(env, err)
	}
	if !deleted {
		env.Infof("Delete cancelled.")
	}
	return exitcode.Success
}
