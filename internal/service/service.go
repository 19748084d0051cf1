package service

import "context"

// Service defines the interface for task backend operations.
// All remote calls go through this interface.
// Commands never import the HTTP backend directly.
type Service interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates a new account. It does not log in.
	Register(ctx context.Context, reg Registration) error

	// CurrentUser returns the user owning the current session token.
	// Returns ErrUnauthorized or ErrNotFound when the token is rejected.
	CurrentUser(ctx context.Context) (User, error)

	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it as stored by the server.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, taskID string) error

	// SetPinned updates only the pinned flag of a task.
	SetPinned(ctx context.Context, taskID string, pinned bool) error

	// UpdateTodos replaces the todo list of a task.
	UpdateTodos(ctx context.Context, taskID string, todos []TodoItem) error

	// SendContact submits the contact form.
	// Returns ErrContactRejected unless the server answers 200.
	SendContact(ctx context.Context, msg ContactMessage) error
}
