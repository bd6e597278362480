package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskboard/internal/api"
	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/ui"
)

// usageError maps to exit code 2. An empty message means help was already shown.
type usageError struct {
	msg  string
	hint string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}

// notificationError is an error toast raised by a one-shot command.
type notificationError struct{ n board.Notification }

func (e *notificationError) Error() string { return e.n.Message }

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string) int {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stdout, stderr)
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		if uerr.msg != "" {
			ui.Fail(uerr.msg)
		}
		if uerr.hint != "" {
			ui.Hint(uerr.hint)
		}
		return 2
	}

	ui.Fail(err.Error())
	var nerr *notificationError
	if errors.As(err, &nerr) && nerr.n.Tip != "" {
		ui.Hint(nerr.n.Tip)
	} else if tip := api.TipOf(err); tip != "" {
		ui.Hint(tip)
	}
	return 1
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{msg: "usage: " + usage}
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return &usageError{msg: "usage: " + usage}
		}
		return nil
	}
}

// dispatch runs actions in order and stops at the first new error toast.
func dispatch(ctx context.Context, s *board.Store, actions ...board.Action) error {
	seen := len(s.State().Notifications)
	for _, a := range actions {
		s.Run(ctx, a)
		ns := s.State().Notifications
		for _, n := range ns[min(seen, len(ns)):] {
			if n.Level == board.LevelError {
				return &notificationError{n: n}
			}
		}
		seen = len(ns)
	}
	return nil
}
