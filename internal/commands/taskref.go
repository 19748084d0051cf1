package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	TaskNum int // 1-based position in the pinned-first listing
	TodoNum int // 1-based todo position; 0 if the reference names a task only
}

// HasTodo reports whether the reference names a todo.
func (r TaskRef) HasTodo() bool {
	return r.TodoNum != 0
}

func (r TaskRef) String() string {
	if r.HasTodo() {
		return fmt.Sprintf("%d.%d", r.TaskNum, r.TodoNum)
	}
	return strconv.Itoa(r.TaskNum)
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTodoRefRequired indicates a task reference without the todo part.
	ErrTodoRefRequired = errors.New("todo number required")
)

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//
//	N      task N
//	N.M    todo M of task N
//	N M    todo M of task N
//
// Anything after the reference is an error.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]
	var ref TaskRef
	rest := args[1:]

	if task, todo, found := strings.Cut(first, "."); found {
		if !isAllDigits(task) || !isAllDigits(todo) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		ref.TaskNum, _ = strconv.Atoi(task)
		ref.TodoNum, _ = strconv.Atoi(todo)
		if ref.TodoNum == 0 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
	} else {
		if !isAllDigits(first) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		ref.TaskNum, _ = strconv.Atoi(first)

		if len(rest) > 0 {
			if !isAllDigits(rest[0]) {
				return TaskRef{}, fmt.Errorf("invalid todo number: %s", rest[0])
			}
			ref.TodoNum, _ = strconv.Atoi(rest[0])
			if ref.TodoNum == 0 {
				return TaskRef{}, fmt.Errorf("invalid todo number: %s", rest[0])
			}
			rest = rest[1:]
		}
	}

	if len(rest) > 0 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return ref, nil
}

// parseTaskOnly parses a reference that must not name a todo.
func parseTaskOnly(args []string) (TaskRef, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return TaskRef{}, err
	}
	if ref.HasTodo() {
		return TaskRef{}, fmt.Errorf("expected a task number, got %s", ref)
	}
	return ref, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
