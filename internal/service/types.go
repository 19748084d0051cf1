// Package service defines the backend-agnostic interface for task operations.
package service

// User is the account behind a session, as returned by the current-user endpoint.
type User struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio,omitempty"`
}

// FullName returns "First Last", trimmed when either part is missing.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TodoItem is a sub-item of a task.
type TodoItem struct {
	ID         string `json:"_id,omitempty"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

// Task is a title/description/body record owned by a user.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Body        string     `json:"body"`
	IsPinned    bool       `json:"isPinned"`
	TodoList    []TodoItem `json:"todoList"`
}

// CompletedTodos returns how many todo items are complete.
func (t Task) CompletedTodos() int {
	n := 0
	for _, todo := range t.TodoList {
		if todo.IsComplete {
			n++
		}
	}
	return n
}

// Clone returns a copy of t that shares no todo storage with it.
func (t Task) Clone() Task {
	if t.TodoList != nil {
		todos := make([]TodoItem, len(t.TodoList))
		copy(todos, t.TodoList)
		t.TodoList = todos
	}
	return t
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Body        string     `json:"body"`
	TodoList    []TodoItem `json:"todoList"`
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration are the register form fields.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ContactMessage is the contact form payload.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
