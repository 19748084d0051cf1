package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string         { return "rm" }
func (c *RmCmd) Aliases() []string    { return []string{"delete"} }
func (c *RmCmd) Synopsis() string     { return "Delete a task" }
func (c *RmCmd) Usage() string        { return "taskpad rm <n>" }
func (c *RmCmd) Guard() session.Guard { return session.GuardUser }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
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
	if err := coll.Delete(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
