package commands

import (
	"context"
	"errors"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/exitcode"
	"taskmgr/internal/prompt"
	"taskmgr/internal/screen"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in with email and password" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = LoginCmd{}
	cmd.Flag("email", "Account email (prompted if omitted)").Short('e').StringVar(&c.email)
	cmd.Flag("password", "Account password (prompted if omitted)").Short('p').StringVar(&c.password)
}

func (c *LoginCmd) Run(ctx context.Context, env *Env) int {
	login := screen.NewLogin(env.Service, env.Store, env.Notifier())
	login.Email, login.Password = c.email, c.password

	var err error
	if login.Email == "" {
		login.Email, err = env.Terminal().Line("Email")
	}
	if err == nil && login.Password == "" {
		login.Password, err = env.Terminal().Password("Password")
	}
	if err != nil && !errors.Is(err, prompt.ErrNoInput) {
		env.Errorf("%v", err)
		return exitcode.UserError
	}

	if _, err := login.Submit(ctx); err != nil {
		return fail(env, err)
	}
	if sess, ok := env.Store.Get(); ok && sess.DisplayName != "" {
		env.Infof("Logged in as %s", sess.DisplayName)
	}
	return exitcode.Success
}
