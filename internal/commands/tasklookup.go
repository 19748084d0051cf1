package commands

import (
	"context"
	"fmt"

	"taskpad/internal/config"
	"taskpad/internal/service"
	"taskpad/internal/tasks"
)

// loadTasks fetches the task list into a fresh collection.
func loadTasks(ctx context.Context, cfg *config.Config, svc service.Service) (*tasks.Collection, error) {
	coll := tasks.NewCollection(svc, cfg.Logger)
	if err := coll.Load(ctx); err != nil {
		return nil, err
	}
	return coll, nil
}

// findTodo returns the 1-based todo num of task.
func findTodo(task service.Task, num int) (service.TodoItem, error) {
	if num < 1 || num > len(task.TodoList) {
		return service.TodoItem{}, fmt.Errorf("todo number %w: %d", tasks.ErrOutOfRange, num)
	}
	return task.TodoList[num-1], nil
}
