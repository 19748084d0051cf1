package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&PinCmd{})
}

// PinCmd implements the pin command. It toggles: pinning a pinned task
// unpins it.
type PinCmd struct{}

func (c *PinCmd) Name() string         { return "pin" }
func (c *PinCmd) Aliases() []string    { return []string{"unpin"} }
func (c *PinCmd) Synopsis() string     { return "Pin or unpin a task" }
func (c *PinCmd) Usage() string        { return "taskpad pin <n>" }
func (c *PinCmd) Guard() session.Guard { return session.GuardUser }

func (c *PinCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *PinCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
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

	updated, err := coll.TogglePinned(ctx, task.ID)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		if updated.IsPinned {
			fmt.Fprintln(out, "pinned")
		} else {
			fmt.Fprintln(out, "unpinned")
		}
	}
	return exitcode.Success
}
