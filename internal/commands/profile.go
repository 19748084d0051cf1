package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/output"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd implements the profile command.
type ProfileCmd struct{}

func (c *ProfileCmd) Name() string         { return "profile" }
func (c *ProfileCmd) Aliases() []string    { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string     { return "Show the logged-in user" }
func (c *ProfileCmd) Usage() string        { return "taskpad profile" }
func (c *ProfileCmd) Guard() session.Guard { return session.GuardUser }

func (c *ProfileCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}

	user, err := currentUser(ctx, sess)
	if err != nil {
		return fail(errOut, err)
	}

	exp, _ := session.TokenExpiry(sess.Store().Current())
	output.FormatProfile(out, user, exp)
	return exitcode.Success
}

// currentUser returns the resolved user, resolving the session again when
// it could not be resolved earlier. A rejected token is cleared by Resolve.
func currentUser(ctx context.Context, sess *session.Manager) (service.User, error) {
	if u := sess.User(); u != nil {
		return *u, nil
	}
	if _, err := sess.Resolve(ctx); err != nil {
		return service.User{}, err
	}
	if u := sess.User(); u != nil {
		return *u, nil
	}
	return service.User{}, service.ErrNotLoggedIn
}
