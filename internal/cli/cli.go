// Package cli is the votedesk command-line surface over a session: dashboard,
// verification queue, election management, activity log and diagnostics.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"votedesk/internal/session"
	dErrors "votedesk/pkg/domain-errors"
)

// Opener builds the session a command runs against.
type Opener func(ctx context.Context) (*session.Session, error)

type command struct {
	name    string
	summary string
	// wallet connects the session identity before run. Failures are fatal for admin
	// commands and ignored otherwise.
	wallet bool
	admin  bool
	run    func(ctx context.Context, a *App, s *session.Session, args []string) error
}

type App struct {
	stdout io.Writer
	stderr io.Writer
	open   Opener

	commands map[string]command
}

func New(stdout, stderr io.Writer, open Opener) *App {
	a := &App{stdout: stdout, stderr: stderr, open: open, commands: map[string]command{}}
	for _, c := range commandTable() {
		a.commands[c.name] = c
	}
	return a
}

// Run executes args (without the program name) and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	cmd, ok := a.commands[args[0]]
	if !ok {
		a.fail(fmt.Errorf("unknown command %q", args[0]))
		a.usage()
		return 2
	}

	sess, err := a.open(ctx)
	if err != nil {
		a.fail(err)
		return 1
	}
	defer sess.Close()

	if cmd.wallet {
		if _, err := sess.Connect(ctx); err != nil && cmd.admin {
			a.fail(err)
			return 1
		}
	}

	if err := cmd.run(ctx, a, sess, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		a.fail(err)
		return 1
	}
	return 0
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *App) fail(err error) {
	msg := dErrors.Message(err)
	var de *dErrors.Error
	if errors.As(err, &de) {
		msg = fmt.Sprintf("%s (%s)", msg, de.Code)
	}
	color.New(color.FgRed).Fprintf(a.stderr, "error: %s\n", msg)
}

func (a *App) usage() {
	fmt.Fprintln(a.stderr, "usage: votedesk <command> [flags]")
	fmt.Fprintln(a.stderr)
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.stderr, "  %-14s %s\n", name, a.commands[name].summary)
	}
}
