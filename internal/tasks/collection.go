// Package tasks holds the user's task collection in memory and keeps it in
// step with the remote service. Writes go straight to the server; there is
// no offline queue and the last write wins.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"taskpad/internal/service"
)

var (
	// ErrTaskNotFound is returned for an unknown task ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTodoNotFound is returned for an unknown todo ID.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrOutOfRange is returned for a display number outside the collection.
	ErrOutOfRange = errors.New("out of range")

	// ErrNotLoaded is returned when the collection is used before Load.
	ErrNotLoaded = errors.New("tasks not loaded")
)

// Backend is the part of service.Service the collection needs.
type Backend interface {
	ListTasks(ctx context.Context) ([]service.Task, error)
	CreateTask(ctx context.Context, task service.NewTask) (service.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	SetPinned(ctx context.Context, taskID string, pinned bool) error
	UpdateTodos(ctx context.Context, taskID string, todos []service.TodoItem) error
}

// SyncError reports a local change the server did not accept.
// The local change is kept.
type SyncError struct {
	TaskID string
	Op     string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s for task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Collection is the in-memory task list.
type Collection struct {
	backend Backend
	logger  *slog.Logger

	mu     sync.RWMutex
	items  []service.Task // server order
	loaded bool
}

// NewCollection creates an empty, unloaded collection.
func NewCollection(backend Backend, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collection{backend: backend, logger: logger}
}

// Load replaces the collection with the server's list.
func (c *Collection) Load(ctx context.Context) error {
	items, err := c.backend.ListTasks(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make([]service.Task, len(items))
	for i, t := range items {
		c.items[i] = t.Clone()
	}
	c.loaded = true
	c.logger.Debug("tasks loaded", "count", len(items))
	return nil
}

// Loaded reports whether Load has succeeded.
func (c *Collection) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items returns the tasks in server order.
func (c *Collection) Items() []service.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(c.items)
}

// Ordered returns the tasks with pinned ones first. Within each group the
// server order is kept.
func (c *Collection) Ordered() []service.Task {
	items := c.Items()
	SortPinnedFirst(items)
	return items
}

// At returns the task shown at 1-based position n in Ordered.
func (c *Collection) At(n int) (service.Task, error) {
	if !c.Loaded() {
		return service.Task{}, ErrNotLoaded
	}
	ordered := c.Ordered()
	if n < 1 || n > len(ordered) {
		return service.Task{}, fmt.Errorf("task number %w: %d", ErrOutOfRange, n)
	}
	return ordered[n-1], nil
}

// Get returns the task with the given ID.
func (c *Collection) Get(taskID string) (service.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(taskID)
	if i < 0 {
		return service.Task{}, false
	}
	return c.items[i].Clone(), true
}

// Create sends the task to the server and appends what it returns.
func (c *Collection) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	created, err := c.backend.CreateTask(ctx, task)
	if err != nil {
		return service.Task{}, err
	}
	c.mu.Lock()
	c.items = append(c.items, created.Clone())
	c.mu.Unlock()
	c.logger.Debug("task created", "task", created.ID)
	return created, nil
}

// Delete removes the task on the server, then locally.
func (c *Collection) Delete(ctx context.Context, taskID string) error {
	if _, ok := c.Get(taskID); !ok {
		return ErrTaskNotFound
	}
	if err := c.backend.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(taskID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.logger.Debug("task deleted", "task", taskID)
	return nil
}

// TogglePinned flips the pinned flag locally, then patches only that flag
// on the server. If the server call fails the local flip is kept and a
// *SyncError is returned alongside the updated task.
func (c *Collection) TogglePinned(ctx context.Context, taskID string) (service.Task, error) {
	c.mu.Lock()
	i := c.indexLocked(taskID)
	if i < 0 {
		c.mu.Unlock()
		return service.Task{}, ErrTaskNotFound
	}
	c.items[i].IsPinned = !c.items[i].IsPinned
	updated := c.items[i].Clone()
	c.mu.Unlock()

	if err := c.backend.SetPinned(ctx, taskID, updated.IsPinned); err != nil {
		c.logger.Warn("failed to update pinned state", "task", taskID, "error", err)
		return updated, &SyncError{TaskID: taskID, Op: "pinned state", Err: err}
	}
	return updated, nil
}

// ToggleTodo flips the completion of the todo at position num (from 1)
// locally, then sends the task's whole todo list to the server. Todos are
// addressed by position since the server may omit their ids. Failure
// handling matches TogglePinned.
func (c *Collection) ToggleTodo(ctx context.Context, taskID string, num int) (service.Task, error) {
	c.mu.Lock()
	i := c.indexLocked(taskID)
	if i < 0 {
		c.mu.Unlock()
		return service.Task{}, ErrTaskNotFound
	}
	j := num - 1
	if j < 0 || j >= len(c.items[i].TodoList) {
		c.mu.Unlock()
		return service.Task{}, ErrTodoNotFound
	}
	c.items[i].TodoList[j].IsComplete = !c.items[i].TodoList[j].IsComplete
	updated := c.items[i].Clone()
	c.mu.Unlock()

	if err := c.backend.UpdateTodos(ctx, taskID, updated.TodoList); err != nil {
		c.logger.Warn("failed to update todo completion", "task", taskID, "todo", num, "error", err)
		return updated, &SyncError{TaskID: taskID, Op: "todo completion", Err: err}
	}
	return updated, nil
}

func (c *Collection) indexLocked(taskID string) int {
	for i, t := range c.items {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// SortPinnedFirst orders tasks pinned first, keeping relative order otherwise.
func SortPinnedFirst(items []service.Task) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].IsPinned && !items[b].IsPinned
	})
}

func cloneAll(items []service.Task) []service.Task {
	out := make([]service.Task, len(items))
	for i, t := range items {
		out[i] = t.Clone()
	}
	return out
}
