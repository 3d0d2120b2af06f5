package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/screen"
	"taskmgr/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	firstname string
	lastname  string
	email     string
	password  string
	country   string
	role      string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(cmd *kingpin.CmdClause) {
	*c = RegisterCmd{}
	cmd.Flag("firstname", "First name").StringVar(&c.firstname)
	cmd.Flag("lastname", "Last name").StringVar(&c.lastname)
	cmd.Flag("email", "Email").Short('e').StringVar(&c.email)
	cmd.Flag("password", "Password").Short('p').StringVar(&c.password)
	cmd.Flag("country", "Country").StringVar(&c.country)
	cmd.Flag("role", "Account role").Default(string(service.DefaultRole)).
		EnumVar(&c.role, string(service.RoleUser), string(service.RoleAdmin))
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env) int {
	reg := screen.NewRegister(env.Service, env.Notifier())
	reg.Firstname = c.firstname
	reg.Lastname = c.lastname
	reg.Email = c.email
	reg.Password = c.password
	reg.Country = c.country
	reg.Role = service.Role(c.role)

	if c.password != "" {
		s := screen.PasswordStrength(c.password)
		env.Infof("Password strength: %s (%d/100)", s.Label, s.Score)
	}

	if _, err := reg.Submit(ctx); err != nil {
		return fail(env, err)
	}
	env.Infof("Run '%s login' to sign in.", config.AppName)
	return exitcode.Success
}
