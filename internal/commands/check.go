package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&CheckCmd{})
}

// CheckCmd implements the check command: it toggles one todo's completion.
type CheckCmd struct{}

func (c *CheckCmd) Name() string         { return "check" }
func (c *CheckCmd) Aliases() []string    { return []string{"uncheck", "toggle"} }
func (c *CheckCmd) Synopsis() string     { return "Toggle a todo item" }
func (c *CheckCmd) Usage() string        { return "taskpad check <n>.<m> | <n> <m>" }
func (c *CheckCmd) Guard() session.Guard { return session.GuardUser }

func (c *CheckCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *CheckCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err == nil && !ref.HasTodo() {
		err = ErrTodoRefRequired
	}
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			return usageError(errOut, "todo reference required")
		}
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
	if _, err := findTodo(task, ref.TodoNum); err != nil {
		return fail(errOut, err)
	}

	updated, err := coll.ToggleTodo(ctx, task.ID, ref.TodoNum)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		state := "open"
		if updated.TodoList[ref.TodoNum-1].IsComplete {
			state = "done"
		}
		fmt.Fprintf(out, "%s %s (%d/%d)\n", ref, state, updated.CompletedTodos(), len(updated.TodoList))
	}
	return exitcode.Success
}
