package commands

import (
	"context"
	"io"
	"net/mail"
	"strings"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. It does not log in.
type RegisterCmd struct {
	username     string
	email        string
	firstName    string
	lastName     string
	passwordFile string
}

// SetFields sets the registration fields (for testing).
func (c *RegisterCmd) SetFields(username, email, firstName, lastName, passwordFile string) {
	c.username = username
	c.email = email
	c.firstName = firstName
	c.lastName = lastName
	c.passwordFile = passwordFile
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskpad register -u <username> -e <email> --first-name <name> --last-name <name> [--password-file <file>]"
}
func (c *RegisterCmd) Guard() session.Guard { return session.GuardGuest }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVarP(&c.email, "email", "e", "", "")
	fs.StringVar(&c.firstName, "first-name", "", "")
	fs.StringVar(&c.lastName, "last-name", "", "")
	fs.StringVar(&c.passwordFile, "password-file", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}

	reg := service.Registration{
		Username:  strings.TrimSpace(c.username),
		Email:     strings.TrimSpace(c.email),
		FirstName: strings.TrimSpace(c.firstName),
		LastName:  strings.TrimSpace(c.lastName),
	}
	for _, field := range []struct{ value, flag string }{
		{reg.Username, "username"},
		{reg.Email, "email"},
		{reg.FirstName, "first-name"},
		{reg.LastName, "last-name"},
	} {
		if field.value == "" {
			return usageError(errOut, "%s required (--%s)", field.flag, field.flag)
		}
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return usageError(errOut, "invalid email: %s", reg.Email)
	}

	password, err := readPassword(c.passwordFile, errOut, true)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	reg.Password = password

	if err := sess.Register(ctx, reg); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
