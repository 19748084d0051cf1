package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/session"
	"taskpad/internal/tasks"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	body        string
	todos       []string
}

// SetFields sets description, body and todos (for testing).
func (c *AddCmd) SetFields(description, body string, todos ...string) {
	c.description = description
	c.body = body
	c.todos = todos
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskpad add -d <description> -b <body> [-t <todo>]... <title...>"
}
func (c *AddCmd) Guard() session.Guard { return session.GuardUser }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "")
	fs.StringVarP(&c.body, "body", "b", "", "")
	fs.StringArrayVarP(&c.todos, "todo", "t", nil, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	switch {
	case title == "":
		return usageError(errOut, "title required")
	case strings.TrimSpace(c.description) == "":
		return usageError(errOut, "description required")
	case strings.TrimSpace(c.body) == "":
		return usageError(errOut, "body required")
	}

	coll := tasks.NewCollection(svc, cfg.Logger)
	if _, err := coll.Create(ctx, service.NewTask{
		Title:       title,
		Description: c.description,
		Body:        c.body,
		TodoList:    todoItems(c.todos),
	}); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// todoItems turns titles into incomplete todos, skipping blank entries.
func todoItems(titles []string) []service.TodoItem {
	items := make([]service.TodoItem, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		items = append(items, service.TodoItem{Title: title})
	}
	return items
}
