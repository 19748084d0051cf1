package session

import "errors"

// State is what the client knows about the session.
type State int

const (
	// Anonymous means there is no user: no token, or the token was rejected.
	Anonymous State = iota

	// Unknown means a token is held but the user could not be fetched
	// (network or server error). It is neither logged in nor logged out.
	Unknown

	// Authenticated means the user was fetched with the current token.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Unknown:
		return "unknown"
	case Authenticated:
		return "authenticated"
	}
	return "invalid"
}

// Guard restricts a command by session state.
type Guard int

const (
	// GuardNone admits everyone and does not resolve the session.
	GuardNone Guard = iota

	// GuardUser refuses only when there is definitely no user.
	GuardUser

	// GuardGuest admits only anonymous sessions.
	GuardGuest
)

var (
	// ErrLoginRequired is returned by GuardUser for anonymous sessions.
	ErrLoginRequired = errors.New("not logged in")

	// ErrAlreadyLoggedIn is returned by GuardGuest for non-anonymous sessions.
	ErrAlreadyLoggedIn = errors.New("already logged in")
)

// Check returns nil if state is admitted.
func (g Guard) Check(state State) error {
	switch g {
	case GuardUser:
		if state == Anonymous {
			return ErrLoginRequired
		}
	case GuardGuest:
		if state != Anonymous {
			return ErrAlreadyLoggedIn
		}
	}
	return nil
}
