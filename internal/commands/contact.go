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
	Register(&ContactCmd{})
}

// ContactCmd implements the contact command. Name and email default to the
// logged-in user's.
type ContactCmd struct {
	name  string
	email string
}

// SetSender sets name and email (for testing).
func (c *ContactCmd) SetSender(name, email string) {
	c.name = name
	c.email = email
}

func (c *ContactCmd) Name() string      { return "contact" }
func (c *ContactCmd) Aliases() []string { return nil }
func (c *ContactCmd) Synopsis() string  { return "Send a message to the site owners" }
func (c *ContactCmd) Usage() string {
	return "taskpad contact [--name <name>] [--email <email>] <message...>"
}
func (c *ContactCmd) Guard() session.Guard { return session.GuardUser }

func (c *ContactCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
}

func (c *ContactCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	msg := service.ContactMessage{
		Name:    strings.TrimSpace(c.name),
		Email:   strings.TrimSpace(c.email),
		Message: strings.TrimSpace(strings.Join(args, " ")),
	}
	if u := sess.User(); u != nil {
		if msg.Name == "" {
			msg.Name = u.FullName()
		}
		if msg.Email == "" {
			msg.Email = u.Email
		}
	}

	switch {
	case msg.Message == "":
		return usageError(errOut, "message required")
	case msg.Name == "":
		return usageError(errOut, "name required")
	case msg.Email == "":
		return usageError(errOut, "email required")
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return usageError(errOut, "invalid email: %s", msg.Email)
	}

	if err := svc.SendContact(ctx, msg); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
