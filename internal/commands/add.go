package commands

import (
	"context"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/prompt"
	"taskmgr/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	title       []string
	description string
	status      string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = AddCmd{}
	cmd.Flag("description", "Task description").Short('d').StringVar(&c.description)
	cmd.Flag("status", "To Do, In Progress or Done").Short('s').
		Default(string(service.DefaultStatus)).StringVar(&c.status)
	cmd.Arg("title", "Task title").StringsVar(&c.title)
}

func (c *AddCmd) Run(ctx context.Context, env *Env) int {
	status, err := service.ParseStatus(c.status)
	if err != nil {
		env.Errorf("%v", err)
		return exitcode.UserError
	}

	form := env.Dashboard(prompt.Answer(false)).Form()
	form.SetTitle(strings.Join(c.title, " "))
	form.SetDescription(c.description)
	form.SetStatus(status)
	if err := form.Submit(ctx); err != nil {
		return fail(env, err)
	}
	return exitcode.Success
}
