// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"taskmgr/internal/clog"
	"taskmgr/internal/commands"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/panicerr"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
)

// ServiceFactory creates a Service from config. sess is nil when no session
// is stored. Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, sess *session.Session, logger *slog.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// In is read by interactive prompts.
	In io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		In:       os.Stdin,
	}
}

type globalFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
	color     bool
	colorSet  bool
}

// Run parses arguments and dispatches to the appropriate command.
// With no command the registry's default command runs.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	var (
		g          globalFlags
		terminated bool
		termCode   int
	)

	app := kingpin.New(config.AppName, "Manage your tasks from the command line.")
	app.UsageWriter(out)
	app.ErrorWriter(errOut)
	app.Terminate(func(code int) {
		if !terminated {
			terminated, termCode = true, code
		}
	})
	app.HelpFlag.Short('h')

	app.Flag("config", "Configuration directory").PlaceHolder("DIR").StringVar(&g.configDir)
	app.Flag("quiet", "Suppress informational output").Short('q').BoolVar(&g.quiet)
	app.Flag("debug", "Log API requests to stderr").BoolVar(&g.debug)
	app.Flag("base-url", "API base URL").PlaceHolder("URL").StringVar(&g.baseURL)
	app.Flag("color", "Colorize output (--no-color to disable)").IsSetByUser(&g.colorSet).BoolVar(&g.color)

	def, _ := d.registry.Default()
	for _, cmd := range d.registry.All() {
		clause := app.Command(cmd.Name(), cmd.Synopsis())
		for _, alias := range cmd.Aliases() {
			clause.Alias(alias)
		}
		if def != nil && cmd.Name() == def.Name() {
			clause.Default()
		}
		cmd.RegisterFlags(clause)
	}

	selected, err := app.Parse(args)
	if terminated {
		return termCode
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		fmt.Fprintf(errOut, "run '%s --help' for usage\n", config.AppName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(selected)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", selected)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, g, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, g globalFlags, out, errOut io.Writer) int {
	cfg, err := config.Load(g.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	cfg.Quiet = g.quiet
	if g.debug {
		cfg.LogLevel = "debug"
	}
	if g.colorSet {
		cfg.NoColor = !g.color
		color.NoColor = !g.color
	}

	level, err := clog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	logger := clog.New(errOut, level, !cfg.NoColor && !color.NoColor)

	store := session.NewFileStore(cfg.SessionPath())
	var sess *session.Session
	if s, ok := store.Get(); ok {
		sess = &s
	}
	if cmd.NeedsAuth() && sess == nil {
		fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
		return exitcode.AuthError
	}

	var svc service.Service
	if d.factory != nil {
		svc, err = d.factory(ctx, cfg, sess, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}

	env := &commands.Env{
		Config:  cfg,
		Store:   store,
		Service: svc,
		Logger:  logger,
		In:      d.In,
		Out:     out,
		ErrOut:  errOut,
	}
	logger.Debug("dispatch", "command", cmd.Name(), "config_dir", cfg.Dir, "base_url", cfg.BaseURL)

	code, err := panicerr.Call(func() int { return cmd.Run(ctx, env) })
	if err != nil {
		logger.Error("command panicked", clog.ErrorAttributeKey, err)
		fmt.Fprintf(errOut, "error: internal error: %v\n", err)
		return exitcode.BackendError
	}
	return code
}
