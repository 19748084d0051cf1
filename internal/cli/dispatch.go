// Package cli parses the command line, prepares config and session, and
// dispatches to commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskpad/internal/commands"
	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/logging"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

// ServiceFactory creates a Service from config.
// Authenticated calls must take their token from store.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store *session.Store) (service.Service, error)

// DefaultCommand runs when no command is given.
const DefaultCommand = "tasks"

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command.
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags
	var (
		configDir string
		apiURL    string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if apiURL != "" {
		cfg.SetAPIURL(apiURL)
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Logger = logging.New(errOut, debug)
	cfg.Logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir, "api", cfg.APIURL)

	store := session.NewStore(cfg.SessionPath())
	if err := store.Load(); err != nil {
		cfg.Logger.Warn("ignoring unreadable session", "error", err)
	}

	svc, err := d.factory(ctx, cfg, store)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	sess := session.NewManager(store, svc, cfg.Logger)

	if code, proceed := d.checkGuard(ctx, cmd.Guard(), sess, cfg, out, errOut); !proceed {
		return code
	}

	return cmd.Run(ctx, cfg, sess, svc, fs.Args(), out, errOut)
}

// checkGuard resolves the session when the guard needs it. proceed is false
// when the command must not run; code is then the exit code.
func (d *Dispatcher) checkGuard(ctx context.Context, guard session.Guard, sess *session.Manager, cfg *config.Config, out, errOut io.Writer) (code int, proceed bool) {
	if guard == session.GuardNone {
		return exitcode.Success, true
	}

	state, err := sess.Resolve(ctx)
	rejected := errors.Is(err, session.ErrSessionRejected)
	if err != nil && !rejected {
		cfg.Logger.Warn("could not verify session", "error", err)
	}

	switch guardErr := guard.Check(state); {
	case guardErr == nil:
		return exitcode.Success, true

	case errors.Is(guardErr, session.ErrLoginRequired):
		if rejected {
			fmt.Fprintf(errOut, "error: session expired or revoked (run: %s login)\n", config.AppName)
		} else {
			fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
		}
		return exitcode.AuthError, false

	case errors.Is(guardErr, session.ErrAlreadyLoggedIn):
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success, false
	}
	return exitcode.Success, true
}
