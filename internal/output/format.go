// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskpad/internal/service"
)

const (
	// PinnedMarker is appended to the title of pinned tasks.
	PinnedMarker = "[pinned]"

	untitled = "(untitled)"
)

// styles are bound to a renderer for w, so color is dropped when w is not
// a terminal.
type styles struct {
	title  lipgloss.Style
	faint  lipgloss.Style
	card   lipgloss.Style
	header lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true),
		faint: r.NewStyle().Faint(true),
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		header: r.NewStyle().Bold(true).Padding(0, 1),
	}
}

// FormatTaskCards prints one bordered card per task, numbered from 1 in
// the order given.
func FormatTaskCards(w io.Writer, tasks []service.Task) {
	s := newStyles(w)
	for i, task := range tasks {
		lines := []string{s.title.Render(cardHeading(i+1, task))}
		if desc := normalizeTitle(task.Description, ""); desc != "" {
			lines = append(lines, desc)
		}
		if body := normalizeTitle(task.Body, ""); body != "" {
			lines = append(lines, s.faint.Render(body))
		}
		if len(task.TodoList) > 0 {
			lines = append(lines, s.faint.Render(todoSummary(task)))
		}
		fmt.Fprintln(w, s.card.Render(strings.Join(lines, "\n")))
	}
}

// FormatTaskTable prints tasks as a table, numbered from 1 in the order given.
func FormatTaskTable(w io.Writer, tasks []service.Task) {
	s := newStyles(w)
	rows := make([][]string, 0, len(tasks))
	for i, task := range tasks {
		pinned := ""
		if task.IsPinned {
			pinned = "yes"
		}
		todos := "-"
		if len(task.TodoList) > 0 {
			todos = fmt.Sprintf("%d/%d", task.CompletedTodos(), len(task.TodoList))
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			normalizeTitle(task.Title, untitled),
			normalizeTitle(task.Description, ""),
			normalizeTitle(task.Body, ""),
			todos,
			pinned,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.faint).
		Headers("#", "TITLE", "DESCRIPTION", "BODY", "TODOS", "PINNED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.String())
}

// FormatTaskDetail prints the full task with its todos numbered from 1.
func FormatTaskDetail(w io.Writer, num int, task service.Task) {
	s := newStyles(w)
	fmt.Fprintln(w, s.title.Render(cardHeading(num, task)))
	if task.Description != "" {
		fmt.Fprintln(w, task.Description)
	}
	if task.Body != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, task.Body)
	}
	if len(task.TodoList) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.faint.Render(todoSummary(task)))
	for i, todo := range task.TodoList {
		FormatTodo(w, i+1, todo)
	}
}

// FormatTodo formats one todo line.
// Format: "{N:>4}  [x] {TITLE}\n"
func FormatTodo(w io.Writer, num int, todo service.TodoItem) {
	mark := "[ ]"
	if todo.IsComplete {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, mark, normalizeTitle(todo.Title, untitled))
}

// FormatProfile prints the account details. A zero expiry is omitted.
func FormatProfile(w io.Writer, user service.User, expires time.Time) {
	s := newStyles(w)
	name := user.FullName()
	if name == "" {
		name = user.Username
	}
	fmt.Fprintln(w, s.title.Render(name))
	fmt.Fprintf(w, "username  %s\n", user.Username)
	fmt.Fprintf(w, "email     %s\n", user.Email)
	if user.Bio != "" {
		fmt.Fprintf(w, "bio       %s\n", normalizeTitle(user.Bio, ""))
	}
	if !expires.IsZero() {
		fmt.Fprintf(w, "session   expires %s\n", expires.Local().Format(time.RFC1123))
	}
}

func cardHeading(num int, task service.Task) string {
	heading := fmt.Sprintf("%d. %s", num, normalizeTitle(task.Title, untitled))
	if task.IsPinned {
		heading += " " + PinnedMarker
	}
	return heading
}

func todoSummary(task service.Task) string {
	return fmt.Sprintf("todos %d/%d", task.CompletedTodos(), len(task.TodoList))
}

// normalizeTitle flattens newlines to spaces. Blank input gives fallback.
func normalizeTitle(title, fallback string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}
