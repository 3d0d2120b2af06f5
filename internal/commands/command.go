// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/notify"
	"taskmgr/internal/output"
	"taskmgr/internal/prompt"
	"taskmgr/internal/screen"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like version, login, register, logout return false.
	NeedsAuth() bool

	// RegisterFlags declares command-specific flags and arguments.
	// It is called once per parse and must reset any state bound to them.
	RegisterFlags(cmd *kingpin.CmdClause)

	// Run executes the command and returns the exit code.
	Run(ctx context.Context, env *Env) int
}

// Env is everything a command may use.
type Env struct {
	Config  *config.Config
	Store   session.Store
	Service service.Service
	Logger  *slog.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	notifier notify.Notifier
	terminal *prompt.Terminal
}

// Notifier returns the console notifier for this invocation.
func (e *Env) Notifier() notify.Notifier {
	if e.notifier == nil {
		e.notifier = notify.NewConsole(e.Out, e.ErrOut, e.Config.Quiet, e.Config.NoColor)
	}
	return e.notifier
}

// Terminal returns the interactive prompt. Questions go to ErrOut so that
// Out stays clean for piping.
func (e *Env) Terminal() *prompt.Terminal {
	if e.terminal == nil {
		in := e.In
		if in == nil {
			in = strings.NewReader("")
		}
		e.terminal = prompt.NewTerminal(in, e.ErrOut)
	}
	return e.terminal
}

// Printer returns a renderer for Out.
func (e *Env) Printer() *output.Printer {
	return output.NewPrinter(e.Out, e.Config.NoColor)
}

// Dashboard builds the dashboard for the stored session.
func (e *Env) Dashboard(c prompt.Confirmer) *screen.Dashboard {
	return screen.NewDashboard(e.Service, e.Store, e.Notifier(), c, e.Config.PageSize)
}

// Printf prints a line of command output.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format+"\n", args...)
}

// Infof prints an informational line unless quiet.
func (e *Env) Infof(format string, args ...any) {
	if e.Config.Quiet {
		return
	}
	fmt.Fprintf(e.Out, format+"\n", args...)
}

// Errorf prints an error line.
func (e *Env) Errorf(format string, args ...any) {
	fmt.Fprintf(e.ErrOut, "error: "+format+"\n", args...)
}

// ExitCode maps an operation error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitcode.BackendError
	}
	switch service.KindOf(err) {
	case service.KindValidation:
		return exitcode.UserError
	case service.KindUnauthorized, service.KindInvalidCredentials:
		return exitcode.AuthError
	case service.KindRejected:
		return exitcode.Rejected
	}
	return exitcode.BackendError
}

// fail finishes a command after err. Errors the screens already showed as
// notifications are only logged; the rest are printed.
func fail(env *Env, err error) int {
	env.Logger.Debug("command failed", "error", err)
	switch {
	case errors.Is(err, screen.ErrLoginRequired):
		env.Errorf("not logged in or session expired (run: %s login)", config.AppName)
	case errors.Is(err, context.Canceled):
		env.Errorf("interrupted")
	case service.KindOf(err) == service.KindUnknown:
		env.Errorf("%v", err)
	}
	return ExitCode(err)
}
