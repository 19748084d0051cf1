// Package restapi implements the service.Service interface against the task REST API.
package restapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"taskpad/internal/config"
	"taskpad/internal/service"
)

const (
	pathLogin       = "/auth/login"
	pathRegister    = "/auth/register"
	pathCurrentUser = "/auth/loggedInUser"
	pathTasks       = "/task"
	pathContact     = "/contact/send"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *slog.Logger

	// anon carries no credentials; authed injects the session token as a bearer header.
	anon   *http.Client
	authed *http.Client
}

// New creates a client for cfg.APIURL. Authenticated calls take their bearer
// token from tokens on every request, so a token saved mid-run is picked up.
func New(ctx context.Context, cfg *config.Config, tokens oauth2.TokenSource) (*Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", cfg.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: want http(s)://host[/path]", cfg.APIURL)
	}
	return NewWithHTTPClient(cfg.APIURL, &http.Client{}, tokens, cfg.Timeout, cfg.Logger), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	authed := *httpClient
	authed.Transport = &oauth2.Transport{Source: tokens, Base: httpClient.Transport}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
		anon:    httpClient,
		authed:  &authed,
	}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (string, error) {
	var resp loginResponse
	if _, err := c.do(ctx, c.anon, http.MethodPost, pathLogin, creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, reg service.Registration) error {
	_, err := c.do(ctx, c.anon, http.MethodPost, pathRegister, reg, nil)
	return err
}

// CurrentUser implements service.Service.
func (c *Client) CurrentUser(ctx context.Context) (service.User, error) {
	var user service.User
	if _, err := c.do(ctx, c.authed, http.MethodGet, pathCurrentUser, nil, &user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if _, err := c.do(ctx, c.authed, http.MethodGet, pathTasks, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	if task.TodoList == nil {
		task.TodoList = []service.TodoItem{}
	}
	var created service.Task
	if _, err := c.do(ctx, c.authed, http.MethodPost, pathTasks, task, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	_, err := c.do(ctx, c.authed, http.MethodDelete, taskPath(taskID), nil, nil)
	return err
}

type pinPatch struct {
	IsPinned bool `json:"isPinned"`
}

// SetPinned implements service.Service.
func (c *Client) SetPinned(ctx context.Context, taskID string, pinned bool) error {
	_, err := c.do(ctx, c.authed, http.MethodPatch, taskPath(taskID), pinPatch{IsPinned: pinned}, nil)
	return err
}

type todoPatch struct {
	TodoList []service.TodoItem `json:"todoList"`
}

// UpdateTodos implements service.Service.
func (c *Client) UpdateTodos(ctx context.Context, taskID string, todos []service.TodoItem) error {
	if todos == nil {
		todos = []service.TodoItem{}
	}
	_, err := c.do(ctx, c.authed, http.MethodPatch, taskPath(taskID), todoPatch{TodoList: todos}, nil)
	return err
}

// SendContact implements service.Service.
func (c *Client) SendContact(ctx context.Context, msg service.ContactMessage) error {
	status, err := c.do(ctx, c.authed, http.MethodPost, pathContact, msg, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w (status %d)", service.ErrContactRejected, status)
	}
	return nil
}

func taskPath(taskID string) string {
	return pathTasks + "/" + url.PathEscape(taskID)
}
