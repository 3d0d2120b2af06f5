package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/output"
	"taskmgr/internal/prompt"
	"taskmgr/internal/view"
)

func init() {
	RegisterDefault(&ListCmd{})
}

// ListCmd renders the dashboard: the filtered, sorted, paginated task table.
type ListCmd struct {
	filters  []string
	sort     string
	page     int
	pageSize int
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks (default command)" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = ListCmd{}
	cmd.Flag("filter", "Keep rows whose column contains a substring, e.g. title=milk (repeatable)").
		Short('f').PlaceHolder("COLUMN=TEXT").StringsVar(&c.filters)
	cmd.Flag("sort", "Sort columns, comma separated; add :desc for descending, e.g. status,title:desc").
		Short('s').StringVar(&c.sort)
	cmd.Flag("page", "Page number, starting at 1").Default("1").IntVar(&c.page)
	cmd.Flag("page-size", "Rows per page (10, 20 or 50)").IntVar(&c.pageSize)
}

type listOptions struct {
	filters  view.Filters
	sort     view.Sort
	pageSize int
}

func (c *ListCmd) parse() (listOptions, error) {
	opts := listOptions{filters: make(view.Filters), pageSize: c.pageSize}
	for _, f := range c.filters {
		col, val, err := view.ParseFilter(f)
		if err != nil {
			return opts, err
		}
		opts.filters[col] = val
	}
	sort, err := view.ParseSort(c.sort)
	if err != nil {
		return opts, err
	}
	opts.sort = sort
	if opts.pageSize != 0 && !view.ValidPageSize(opts.pageSize) {
		return opts, fmt.Errorf("invalid page size %d (want one of %v)", opts.pageSize, view.PageSizes)
	}
	return opts, nil
}

func (c *ListCmd) Run(ctx context.Context, env *Env) int {
	opts, err := c.parse()
	if err != nil {
		env.Errorf("%v", err)
		return exitcode.UserError
	}

	dash := env.Dashboard(prompt.Answer(false))
	if _, err := dash.Mount(ctx); err != nil {
		return fail(env, err)
	}

	model := dash.Model()
	if opts.pageSize != 0 {
		if err := model.SetPageSize(opts.pageSize); err != nil {
			env.Errorf("%v", err)
			return exitcode.UserError
		}
	}
	for col, val := range opts.filters {
		if err := model.SetFilter(col, val); err != nil {
			env.Errorf("%v", err)
			return exitcode.UserError
		}
	}
	if err := model.SetSort(opts.sort); err != nil {
		env.Errorf("%v", err)
		return exitcode.UserError
	}
	model.GoToPage(c.page - 1)

	sess, _ := dash.Session()
	err = env.Printer().Dashboard(output.Dashboard{
		User:       sess.DisplayName,
		Projection: model.Projection(),
		Filters:    model.Filters(),
		Sort:       model.Sort(),
		AllTasks:   len(model.Tasks()),
	})
	if err != nil {
		env.Errorf("%v", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
