package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskboard/internal/board"
	"github.com/idilsaglam/taskboard/internal/model"
	"github.com/idilsaglam/taskboard/internal/tui"
	"github.com/idilsaglam/taskboard/internal/ui"
)

func (a *app) newUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive board",
		Args:  exactArgs(0, "taskboard ui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), a.store())
		},
	}
}

func (a *app) newListCommand() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  exactArgs(0, "taskboard ls [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.store()
			if err := dispatch(cmd.Context(), s, board.Fetch{}); err != nil {
				return err
			}
			printList(s.State().Tasks, group)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by column")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task to Pending (title can be multiple words)",
		Args:  minArgs(1, "taskboard add <title...> [-d description]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageErrorf("add: empty title")
			}
			s := a.store()
			err := dispatch(cmd.Context(), s,
				board.OpenModal{},
				board.EditForm{Form: board.Form{Title: title, Description: description, Status: model.Pending}},
				board.Submit{},
			)
			if err != nil {
				return err
			}
			ui.OK("added")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	return cmd
}

func (a *app) newMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to pending, in_progress or finished",
		Args:  exactArgs(2, "taskboard move <id> <pending|in_progress|finished>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("move", args[0])
			if err != nil {
				return err
			}
			dest, err := board.ParseColumn(args[1])
			if err != nil {
				return &usageError{msg: "move: " + err.Error()}
			}

			s := a.store()
			if err := dispatch(cmd.Context(), s, board.Fetch{}); err != nil {
				return err
			}
			t, ok := s.State().Task(id)
			if !ok {
				return &usageError{msg: fmt.Sprintf("move: no task with id %d", id), hint: "run `taskboard ls` to see valid ids"}
			}
			src := board.ColumnFor(t.Status)
			if src == dest {
				ui.OK("already in " + dest.Title())
				return nil
			}
			if err := dispatch(cmd.Context(), s, board.DragEnd{TaskID: id, Source: src, Destination: board.DropOn(dest)}); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("moved #%d to %s", id, dest.Title()))
			return nil
		},
	}
}

func (a *app) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  exactArgs(1, "taskboard rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			s := a.store()
			if err := dispatch(cmd.Context(), s, board.OpenDelete{ID: id}, board.ConfirmDelete{}); err != nil {
				return err
			}
			ui.OK("removed")
			return nil
		},
	}
}

func parseID(verb, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, &usageError{msg: verb + ": not a task id: " + s, hint: "run `taskboard ls` to see valid ids"}
	}
	return id, nil
}

// -------------- rendering helpers --------------

func printList(tasks []model.Task, group bool) {
	t := ui.Current()
	c := board.Stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Tasks"),
		ui.C(t.Pending, t.SymPending), c[model.Pending],
		ui.C(t.Progress, t.SymProgress), c[model.InProgress],
		ui.C(t.Success, t.SymDone), c[model.Finished],
		ui.C(t.Accent, "Total"), c.Total(),
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(c[model.Finished], c.Total(), 28)), ""}
	if group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `taskboard add \"Buy milk\"`"))
	ui.Panel(lines)
}

func flatLines(tasks []model.Task) []string {
	th := ui.Current()
	if len(tasks) == 0 {
		return []string{ui.C(th.Muted, "no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		color, sym := th.Status(t.Status)
		line := fmt.Sprintf("%s %s %s", ui.Dim(fmt.Sprintf("#%-3d", t.ID)), ui.C(color, sym), ui.Truncate(t.Title, 60))
		if t.Description != "" {
			line += ui.C(th.Muted, "  "+ui.Truncate(t.Description, 40))
		}
		if t.HasFinishedAt() {
			line += ui.C(th.Muted, "  finished "+model.DisplayTimestamp(*t.FinishedAt))
		}
		out = append(out, line)
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	th := ui.Current()
	var lines []string
	for i, col := range board.Columns(tasks) {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(th.Accent, col.ID.Title()))
		if len(col.Tasks) == 0 {
			lines = append(lines, ui.C(th.Muted, "(none)"))
			continue
		}
		lines = append(lines, flatLines(col.Tasks)...)
	}
	return lines
}
