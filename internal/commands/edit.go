package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/prompt"
	"taskmgr/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd changes fields of an existing task.
type EditCmd struct {
	id          string
	title       string
	description string
	status      string
	titleSet    bool
	descSet     bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = EditCmd{}
	cmd.Arg("id", "Task ID").Required().StringVar(&c.id)
	cmd.Flag("title", "New title").Short('t').IsSetByUser(&c.titleSet).StringVar(&c.title)
	cmd.Flag("description", "New description").Short('d').IsSetByUser(&c.descSet).StringVar(&c.description)
	cmd.Flag("status", "New status: To Do, In Progress or Done").Short('s').StringVar(&c.status)
}

func (c *EditCmd) Run(ctx context.Context, env *Env) int {
	if !c.titleSet && !c.descSet && c.status == "" {
		env.Errorf("nothing to change (use --title, --description or --status)")
		return exitcode.UserError
	}
	var status service.Status
	if c.status != "" {
		var err error
		if status, err = service.ParseStatus(c.status); err != nil {
			env.Errorf("%v", err)
			return exitcode.UserError
		}
	}

	dash := env.Dashboard(prompt.Answer(false))
	if _, err := dash.Mount(ctx); err != nil {
		return fail(env, err)
	}
	task, ok := dash.Model().Find(service.TaskID(c.id))
	if !ok {
		env.Errorf("task not found: %s", c.id)
		return exitcode.UserError
	}

	form := dash.Form()
	form.Edit(task)
	if c.titleSet {
		form.SetTitle(c.title)
	}
	if c.descSet {
		form.SetDescription(c.description)
	}
	if status != "" {
		form.SetStatus(status)
	}
	if err := form.Submit(ctx); err != nil {
		return fail(env, err)
	}
	if updated, ok := dash.Model().Find(task.ID); ok && !env.Config.Quiet {
		env.Printer().Task(updated)
	}
	return exitcode.Success
}
