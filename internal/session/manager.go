package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"taskpad/internal/service"
)

// ErrSessionRejected is returned by Resolve when the server refused the
// stored token (401) or no longer knows its user (404). The session has
// been cleared by the time it is returned.
var ErrSessionRejected = errors.New("session expired or revoked")

// Manager drives the session state machine:
//
//	anonymous --Login--> authenticated   (token persisted, user fetched)
//	authenticated --Logout--> anonymous  (token removed)
//	authenticated --401/404 on user fetch--> anonymous
//
// The user is re-fetched whenever the token differs from the one it was
// last derived from.
type Manager struct {
	store  *Store
	svc    service.Service
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	user        *service.User
	resolvedFor string
}

// NewManager creates a manager over store. svc is used for login, register
// and fetching the current user.
func NewManager(store *Store, svc service.Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, svc: svc, logger: logger}
}

// Store returns the underlying token store.
func (m *Manager) Store() *Store {
	return m.store
}

// State returns the state from the last Resolve, Login or Logout.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns a copy of the logged-in user, or nil.
func (m *Manager) User() *service.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Resolve derives the session state from the stored token.
//
// No token gives Anonymous. A token the server rejects with 401 or 404 is
// cleared and gives Anonymous with ErrSessionRejected. Any other failure
// leaves the token alone and gives Unknown with the cause.
func (m *Manager) Resolve(ctx context.Context) (State, error) {
	token := m.store.Current()

	m.mu.Lock()
	if token == "" {
		m.setLocked(Anonymous, nil, "")
		m.mu.Unlock()
		return Anonymous, nil
	}
	if token == m.resolvedFor && m.state == Authenticated {
		m.mu.Unlock()
		return Authenticated, nil
	}
	m.mu.Unlock()

	if exp, ok := TokenExpiry(token); ok {
		m.logger.Debug("session token expiry", "expires", exp)
	}

	user, err := m.svc.CurrentUser(ctx)
	switch {
	case err == nil:
		m.mu.Lock()
		m.setLocked(Authenticated, &user, token)
		m.mu.Unlock()
		m.logger.Debug("session resolved", "user", user.Username)
		return Authenticated, nil

	case service.IsSessionRejected(err):
		m.logger.Debug("session rejected, logging out", "error", err)
		if clearErr := m.Logout(); clearErr != nil {
			m.logger.Warn("failed to clear session", "error", clearErr)
		}
		return Anonymous, fmt.Errorf("%w: %v", ErrSessionRejected, err)

	default:
		m.mu.Lock()
		m.setLocked(Unknown, nil, token)
		m.mu.Unlock()
		return Unknown, fmt.Errorf("fetching current user: %w", err)
	}
}

// Login exchanges credentials for a token, persists it and fetches the user.
// A failure to fetch the user afterwards does not undo the login; the
// returned state says what is known.
func (m *Manager) Login(ctx context.Context, creds service.Credentials) (State, error) {
	token, err := m.svc.Login(ctx, creds)
	if err != nil {
		return m.State(), err
	}
	if err := m.store.Save(token); err != nil {
		return m.State(), err
	}

	state, err := m.Resolve(ctx)
	if err != nil && state == Unknown {
		m.logger.Warn("logged in, but fetching the user failed", "error", err)
		return state, nil
	}
	return state, err
}

// Register creates an account. It does not log in.
func (m *Manager) Register(ctx context.Context, reg service.Registration) error {
	return m.svc.Register(ctx, reg)
}

// Logout forgets the token and the user.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.setLocked(Anonymous, nil, "")
	m.mu.Unlock()
	return m.store.Clear()
}

func (m *Manager) setLocked(state State, user *service.User, token string) {
	m.state = state
	m.user = user
	m.resolvedFor = token
}
