package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username     string
	passwordFile string
}

// SetCredentials sets the username and password file (for testing).
func (c *LoginCmd) SetCredentials(username, passwordFile string) {
	c.username = username
	c.passwordFile = passwordFile
}

func (c *LoginCmd) Name() string         { return "login" }
func (c *LoginCmd) Aliases() []string    { return nil }
func (c *LoginCmd) Synopsis() string     { return "Log in and store the session" }
func (c *LoginCmd) Usage() string        { return "taskpad login -u <username> [--password-file <file>]" }
func (c *LoginCmd) Guard() session.Guard { return session.GuardGuest }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "")
	fs.StringVar(&c.passwordFile, "password-file", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	username := strings.TrimSpace(c.username)
	if username == "" {
		return usageError(errOut, "username required (--username)")
	}

	password, err := readPassword(c.passwordFile, errOut, false)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	state, err := sess.Login(ctx, service.Credentials{Username: username, Password: password})
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		if u := sess.User(); state == session.Authenticated && u != nil {
			fmt.Fprintf(out, "logged in as %s\n", u.Username)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
