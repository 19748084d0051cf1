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
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string         { return "show" }
func (c *ShowCmd) Aliases() []string    { return []string{"view"} }
func (c *ShowCmd) Synopsis() string     { return "Show a task with its todos" }
func (c *ShowCmd) Usage() string        { return "taskpad show <n>" }
func (c *ShowCmd) Guard() session.Guard { return session.GuardUser }

func (c *ShowCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := parseTaskOnly(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	coll, err := loadTasks(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := coll.At(ref.TaskNum)
	if err != nil {
		return fail(errOut, err)
	}

	output.FormatTaskDetail(out, ref.TaskNum, task)
	return exitcode.Success
}
