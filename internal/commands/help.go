package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskpad/internal/config"
	"taskpad/internal/exitcode"
	"taskpad/internal/service"
	"taskpad/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string         { return "help" }
func (c *HelpCmd) Aliases() []string    { return nil }
func (c *HelpCmd) Synopsis() string     { return "Print usage" }
func (c *HelpCmd) Usage() string        { return "taskpad help" }
func (c *HelpCmd) Guard() session.Guard { return session.GuardNone }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskpad                                    List tasks, pinned first
  taskpad tasks [common flags] [--table]
  taskpad show [common flags] <n>
  taskpad add [common flags] -d <description> -b <body> [-t <todo>]... <title...>
  taskpad rm [common flags] <n>
  taskpad pin [common flags] <n>
  taskpad check [common flags] <n>.<m> | <n> <m>
  taskpad profile [common flags]
  taskpad contact [common flags] [--name <name>] [--email <email>] <message...>
  taskpad login [common flags] -u <username> [--password-file <file>]
  taskpad register [common flags] -u <username> -e <email> --first-name <name> --last-name <name> [--password-file <file>]
  taskpad logout [common flags]
  taskpad help
  taskpad version

Tasks are numbered as listed: pinned tasks first, then the rest.
Todo m of task n is written n.m.

Common flags:
  --config <dir>     Override config directory
  --api-url <url>    Override the API base URL (env TASKPAD_API_URL)
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
