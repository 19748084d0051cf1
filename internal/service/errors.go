package service

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotLoggedIn is returned when an authenticated call is made without a token.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrContactRejected is returned when the contact endpoint does not answer 200.
	ErrContactRejected = errors.New("contact message not accepted")
)

// IsSessionRejected reports whether err means the session token is no longer usable.
// Both 401 and 404 from the current-user endpoint end the session.
func IsSessionRejected(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound)
}
