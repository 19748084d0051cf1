// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task or todo number).
	UserError = 1

	// AuthError indicates a missing or rejected session, or a failed login.
	AuthError = 2

	// BackendError indicates a server, network or sync error.
	BackendError = 3
)
