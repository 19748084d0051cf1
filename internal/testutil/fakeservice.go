// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskpad/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It models a single account; Token is the token it hands out and accepts.
type FakeService struct {
	mu       sync.RWMutex
	user     service.User
	password string
	tasks    []service.Task
	nextID   int
	contacts []service.ContactMessage
	regs     []service.Registration

	// Token is returned by Login. CurrentUser does not check it; set
	// CurrentUserErr to simulate a rejected session.
	Token string

	// Calls counts invocations per method name.
	Calls map[string]int

	// Error injection for testing
	LoginErr       error
	RegisterErr    error
	CurrentUserErr error
	ListTasksErr   error
	CreateTaskErr  error
	DeleteTaskErr  error
	SetPinnedErr   error
	UpdateTodosErr error
	SendContactErr error
}

// NewFakeService creates a FakeService with one account (alice / secret).
func NewFakeService() *FakeService {
	return &FakeService{
		user: service.User{
			ID:        "u1",
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Liddell",
		},
		password: "secret",
		Token:    "fake-token",
		Calls:    make(map[string]int),
	}
}

// SetUser replaces the account.
func (f *FakeService) SetUser(user service.User, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = user
	f.password = password
}

// AddTask adds a task; id and todo ids are generated when empty.
func (f *FakeService) AddTask(task service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task = f.withIDsLocked(task)
	f.tasks = append(f.tasks, task)
	return task.Clone()
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Contacts returns submitted contact messages.
func (f *FakeService) Contacts() []service.ContactMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.ContactMessage(nil), f.contacts...)
}

// Registrations returns submitted registrations.
func (f *FakeService) Registrations() []service.Registration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Registration(nil), f.regs...)
}

func (f *FakeService) call(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = make(map[string]int)
	}
	f.Calls[name]++
}

func (f *FakeService) withIDsLocked(task service.Task) service.Task {
	task = task.Clone()
	if task.ID == "" {
		f.nextID++
		task.ID = fmt.Sprintf("t%d", f.nextID)
	}
	for i := range task.TodoList {
		if task.TodoList[i].ID == "" {
			task.TodoList[i].ID = fmt.Sprintf("%s-todo%d", task.ID, i+1)
		}
	}
	return task
}

func (f *FakeService) indexLocked(taskID string) int {
	for i, t := range f.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	f.call("Login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if creds.Username != f.user.Username || creds.Password != f.password {
		return "", fmt.Errorf("%w: Invalid credentials", service.ErrUnauthorized)
	}
	return f.Token, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) error {
	f.call("Register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = append(f.regs, reg)
	return nil
}

// CurrentUser implements service.Service.
func (f *FakeService) CurrentUser(ctx context.Context) (service.User, error) {
	f.call("CurrentUser")
	if f.CurrentUserErr != nil {
		return service.User{}, f.CurrentUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.user, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.call("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	f.call("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	task := f.withIDsLocked(service.Task{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		TodoList:    in.TodoList,
	})
	f.tasks = append(f.tasks, task)
	return task.Clone(), nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID string) error {
	f.call("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// SetPinned implements service.Service.
func (f *FakeService) SetPinned(ctx context.Context, taskID string, pinned bool) error {
	f.call("SetPinned")
	if f.SetPinnedErr != nil {
		return f.SetPinnedErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].IsPinned = pinned
	return nil
}

// UpdateTodos implements service.Service.
func (f *FakeService) UpdateTodos(ctx context.Context, taskID string, todos []service.TodoItem) error {
	f.call("UpdateTodos")
	if f.UpdateTodosErr != nil {
		return f.UpdateTodosErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(taskID)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].TodoList = append([]service.TodoItem(nil), todos...)
	return nil
}

// SendContact implements service.Service.
func (f *FakeService) SendContact(ctx context.Context, msg service.ContactMessage) error {
	f.call("SendContact")
	if f.SendContactErr != nil {
		return f.SendContactErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, msg)
	return nil
}
