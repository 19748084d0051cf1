package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/output"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command.
// Handles both `taskpad` (no args) and `taskpad tasks`.
type TasksCmd struct {
	table bool
}

// SetTable selects the table view (for testing).
func (c *TasksCmd) SetTable(table bool) {
	c.table = table
}

func (c *TasksCmd) Name() string         { return "tasks" }
func (c *TasksCmd) Aliases() []string    { return []string{"list", "ls"} }
func (c *TasksCmd) Synopsis() string     { return "List tasks, pinned first" }
func (c *TasksCmd) Usage() string        { return "taskpad tasks [--table]" }
func (c *TasksCmd) Guard() session.Guard { return session.GuardUser }

func (c *TasksCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.table, "table", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}

	coll, err := loadTasks(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	items := coll.Ordered()
	if len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if c.table || cfg.View == config.ViewTable {
		output.FormatTaskTable(out, items)
	} else {
		output.FormatTaskCards(out, items)
	}
	return exitcode.Success
}
