package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskpad/internal/service"
)

// APIPrefix is the path prefix FakeAPI serves under, so clients exercise base-path joining.
const APIPrefix = "/api"

// RecordedRequest is a request seen by FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

type fakeAccount struct {
	user     service.User
	password string
}

// FakeAPI is an httptest server speaking the task service REST protocol.
type FakeAPI struct {
	server *httptest.Server

	mu        sync.Mutex
	accounts  map[string]*fakeAccount // username -> account
	tokens    map[string]string       // token -> username
	tasks     map[string][]service.Task
	requests  []RecordedRequest
	failures  map[string]int // method -> forced status
	contacts  []service.ContactMessage
	contactSC int
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
		tasks:    make(map[string][]service.Task),
		failures: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(f.record, f.inject)
	api := r.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/auth/login", f.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", f.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/loggedInUser", f.handleLoggedInUser).Methods(http.MethodGet)
	api.HandleFunc("/task", f.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/task", f.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/task/{id}", f.handleDeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/task/{id}", f.handlePatchTask).Methods(http.MethodPatch)
	api.HandleFunc("/contact/send", f.handleContact).Methods(http.MethodPost)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the API base URL including APIPrefix.
func (f *FakeAPI) URL() string {
	return f.server.URL + APIPrefix
}

// Client returns an HTTP client for the server.
func (f *FakeAPI) Client() *http.Client {
	return f.server.Client()
}

// AddUser registers an account directly.
func (f *FakeAPI) AddUser(user service.User, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.accounts[user.Username] = &fakeAccount{user: user, password: password}
	return user
}

// DeleteUser removes an account but keeps its tokens, so the current-user endpoint answers 404.
func (f *FakeAPI) DeleteUser(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, username)
}

// IssueToken creates a valid token for username.
func (f *FakeAPI) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueTokenLocked(username)
}

func (f *FakeAPI) issueTokenLocked(username string) string {
	token := "tok-" + uuid.NewString()
	f.tokens[token] = username
	return token
}

// RevokeToken invalidates a token; later requests with it get 401.
func (f *FakeAPI) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// AddTask stores a task for username, assigning IDs where missing.
func (f *FakeAPI) AddTask(username string, task service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task = assignIDs(task)
	f.tasks[username] = append(f.tasks[username], task)
	return task.Clone()
}

// Tasks returns a copy of username's stored tasks.
func (f *FakeAPI) Tasks(username string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, 0, len(f.tasks[username]))
	for _, t := range f.tasks[username] {
		out = append(out, t.Clone())
	}
	return out
}

// Account returns a registered account and its password.
func (f *FakeAPI) Account(username string) (service.User, string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[username]
	if !ok {
		return service.User{}, "", false
	}
	return acct.user, acct.password, true
}

// Contacts returns the contact messages received.
func (f *FakeAPI) Contacts() []service.ContactMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.ContactMessage(nil), f.contacts...)
}

// SetContactStatus sets the status the contact endpoint answers with. Zero means 200.
func (f *FakeAPI) SetContactStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contactSC = code
}

// FailMethod makes every request with the given method answer status.
// A zero status clears the failure.
func (f *FakeAPI) FailMethod(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, method)
		return
	}
	f.failures[method] = status
}

// Requests returns all recorded requests.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// LastRequest returns the most recent request, or a zero value.
func (f *FakeAPI) LastRequest() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}
	}
	return f.requests[len(f.requests)-1]
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(data)))
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
			Body:          string(data),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, ok := f.failures[r.Method]
		f.mu.Unlock()
		if ok {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authUser returns the username for the request's bearer token.
// Caller must hold f.mu.
func (f *FakeAPI) authUser(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	username, ok := f.tokens[token]
	return username, ok
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[creds.Username]
	if !ok || acct.password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": f.issueTokenLocked(creds.Username)})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg service.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	if reg.Username == "" || reg.Password == "" || reg.Email == "" || reg.FirstName == "" || reg.LastName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "all fields are required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[reg.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username already taken"})
		return
	}
	f.accounts[reg.Username] = &fakeAccount{
		user: service.User{
			ID:        uuid.NewString(),
			Username:  reg.Username,
			Email:     reg.Email,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
		},
		password: reg.Password,
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (f *FakeAPI) handleLoggedInUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.authUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	acct, ok := f.accounts[username]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (f *FakeAPI) handleListTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.authUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	tasks := f.tasks[username]
	if tasks == nil {
		tasks = []service.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (f *FakeAPI) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in service.NewTask
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "title is required"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.authUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	task := assignIDs(service.Task{
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		TodoList:    in.TodoList,
	})
	f.tasks[username] = append(f.tasks[username], task)
	writeJSON(w, http.StatusCreated, task)
}

func (f *FakeAPI) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.authUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	tasks := f.tasks[username]
	for i, t := range tasks {
		if t.ID == id {
			f.tasks[username] = append(tasks[:i:i], tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (f *FakeAPI) handlePatchTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.authUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	tasks := f.tasks[username]
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if raw, ok := patch["isPinned"]; ok {
			if err := json.Unmarshal(raw, &tasks[i].IsPinned); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad isPinned"})
				return
			}
		}
		if raw, ok := patch["todoList"]; ok {
			var todos []service.TodoItem
			if err := json.Unmarshal(raw, &todos); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad todoList"})
				return
			}
			tasks[i].TodoList = todos
			tasks[i] = assignIDs(tasks[i])
		}
		writeJSON(w, http.StatusOK, tasks[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (f *FakeAPI) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg service.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authUser(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
		return
	}
	f.contacts = append(f.contacts, msg)
	status := f.contactSC
	if status == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]string{"message": "Message received"})
}

func assignIDs(task service.Task) service.Task {
	task = task.Clone()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.TodoList == nil {
		task.TodoList = []service.TodoItem{}
	}
	for i := range task.TodoList {
		if task.TodoList[i].ID == "" {
			task.TodoList[i].ID = uuid.NewString()
		}
	}
	return task
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
