package commands

import (
	"errors"
	"fmt"
	"io"

	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
	"taskpad/internal/tasks"
)

// fail prints err as an "error:" line and returns the matching exit code.
func fail(errOut io.Writer, err error) int {
	var syncErr *tasks.SyncError
	switch {
	case errors.As(err, &syncErr):
		fmt.Fprintf(errOut, "error: change not saved on server: %v\n", syncErr.Err)
		return exitcode.BackendError

	case errors.Is(err, tasks.ErrOutOfRange),
		errors.Is(err, tasks.ErrTaskNotFound),
		errors.Is(err, tasks.ErrTodoNotFound),
		errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrNotLoggedIn),
		errors.Is(err, session.ErrSessionRejected):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// usageError prints a user error.
func usageError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints the confirmation line unless quiet.
func ok(out io.Writer, quiet bool) int {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
