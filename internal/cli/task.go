package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
)

// taskFlags are the field flags shared by add and edit.
type taskFlags struct {
	title  string
	date   string
	time   string
	desc   string
	color  string
	tags   []string
	repeat string
	every  int
	until  string
}

func (f *taskFlags) register(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "New title")
	}
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Date (YYYY-MM-DD, today, tm, mon, +3d, ...)")
	cmd.Flags().StringVar(&f.time, "time", "", "Time of day (HH:MM, 24-hour)")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description")
	cmd.Flags().StringVar(&f.color, "color", "", "Color (blue, green, red, yellow, purple, orange)")
	cmd.Flags().StringSliceVar(&f.tags, "tags", []string{}, "Tags (comma-separated)")
	cmd.Flags().StringVar(&f.repeat, "repeat", "", "Repeat daily, weekly or monthly")
	cmd.Flags().IntVar(&f.every, "every", 1, "Repeat interval")
	cmd.Flags().StringVar(&f.until, "until", "", "Last date of the repetition (inclusive)")
}

func (f *taskFlags) recurrence() (*calendar.Recurrence, error) {
	if f.repeat == "" {
		return nil, nil
	}
	rule := &calendar.Recurrence{
		Type:     calendar.RecurrenceType(strings.ToLower(f.repeat)),
		Interval: f.every,
	}
	if f.until != "" {
		until, err := resolveDate(f.until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		rule.EndDate = until
	}
	return rule, nil
}

func newAddCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task. Without a title an interactive form opens.
The title may use the quick-add syntax: "Standup 09:15 #work".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in calendar.TaskInput
			if len(args) == 0 {
				date, err := resolveDate(flags.date)
				if err != nil {
					return err
				}
				in, err = runTaskForm(calendar.TaskInput{Date: date, Color: calendar.Color(flags.color)})
				if err != nil {
					return err
				}
			} else {
				date, err := resolveDate(flags.date)
				if err != nil {
					return err
				}
				in = calendar.ParseQuickAdd(strings.Join(args, " "), date)
				if flags.time != "" {
					in.Time = flags.time
				}
				in.Description = flags.desc
				in.Color = calendar.Color(flags.color)
				in.Tags = append(in.Tags, flags.tags...)
				rule, err := flags.recurrence()
				if err != nil {
					return err
				}
				in.Recurrence = rule
			}

			return withApp(cmd.Context(), func(a *app) error {
				task, occurrences, err := a.store.AddTask(in)
				if err != nil {
					return fmt.Errorf("failed to create task: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✓ Created task: %s\n", task.ID)
				fmt.Fprintf(out, "  Title: %s\n", task.Title)
				fmt.Fprintf(out, "  Date: %s\n", datekey.Display(task.Date))
				if task.Time != "" {
					fmt.Fprintf(out, "  Time: %s\n", task.Time)
				}
				if len(task.Tags) > 0 {
					fmt.Fprintf(out, "  Tags: %s\n", strings.Join(task.Tags, ", "))
				}
				if len(occurrences) > 0 {
					fmt.Fprintf(out, "  Repeats: %d more %s occurrence(s) until %s\n",
						len(occurrences), task.Recurrence.Type, occurrences[len(occurrences)-1].Date)
				}
				return nil
			})
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newEditCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				existing, ok := a.store.FindByID(args[0])
				if !ok || existing.ReadOnly {
					return fmt.Errorf("task not found: %s", args[0])
				}

				in := calendar.TaskInput{
					Title:       existing.Title,
					Date:        existing.Date,
					Time:        existing.Time,
					Description: existing.Description,
					Color:       existing.Color,
					Tags:        existing.Tags,
				}
				changed := cmd.Flags().Changed
				if changed("title") {
					in.Title = flags.title
				}
				if changed("date") {
					date, err := resolveDate(flags.date)
					if err != nil {
						return err
					}
					in.Date = date
				}
				if changed("time") {
					in.Time = flags.time
				}
				if changed("desc") {
					in.Description = flags.desc
				}
				if changed("color") {
					in.Color = calendar.Color(flags.color)
				}
				if changed("tags") {
					in.Tags = flags.tags
				}
				if changed("repeat") {
					rule, err := flags.recurrence()
					if err != nil {
						return err
					}
					in.Recurrence = rule
				}

				if _, err := a.store.UpdateTask(existing.ID, in); err != nil {
					return fmt.Errorf("failed to update task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated task %s\n", existing.ID)
				return nil
			})
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				removed, err := a.store.DeleteTask(args[0])
				if err != nil {
					return fmt.Errorf("failed to delete task: %w", err)
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing deleted: no task %s\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted task %s\n", args[0])
				return nil
			})
		},
	}
}

func newDoneCmd(value bool) *cobra.Command {
	use, short, verb := "done <task-id>", "Mark a task as completed", "completed"
	if !value {
		use, short, verb = "undone <task-id>", "Mark a task as not completed", "not completed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if _, ok := a.store.FindByID(args[0]); !ok {
					return fmt.Errorf("task not found: %s", args[0])
				}
				if _, err := a.store.ToggleCompleted(args[0], value); err != nil {
					return fmt.Errorf("failed to update task: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked task %s as %s\n", args[0], verb)
				return nil
			})
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <task-id> <date>",
		Short: "Move a task to another date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				moved, err := a.store.MoveTask(args[0], date)
				if err != nil {
					return fmt.Errorf("failed to move task: %w", err)
				}
				if !moved {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing moved: task %s is not movable to %s\n", args[0], date)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved task %s to %s\n", args[0], datekey.Display(date))
				return nil
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details (holiday-<date> ids work too)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				t, ok := a.store.FindByID(args[0])
				if !ok {
					return fmt.Errorf("task not found: %s", args[0])
				}

				out := cmd.OutOrStdout()
				if jsonFlag {
					return json.NewEncoder(out).Encode(t)
				}

				fmt.Fprintln(out, taskLine(t))
				fmt.Fprintf(out, "  Date: %s (%s)\n", datekey.Display(t.Date), datekey.Describe(t.Date, now()))
				if t.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", strings.ReplaceAll(t.Description, "\n", "\n    "))
				}
				if t.IsHoliday {
					fmt.Fprintf(out, "  Holiday type: %s\n", t.HolidayType)
					return nil
				}
				fmt.Fprintf(out, "  Color: %s\n", t.Color)
				if t.Recurrence != nil {
					fmt.Fprintf(out, "  Repeats: %s every %d", t.Recurrence.Type, t.Recurrence.Interval)
					if t.Recurrence.EndDate != "" {
						fmt.Fprintf(out, " until %s", t.Recurrence.EndDate)
					}
					fmt.Fprintln(out)
				}
				if t.ParentTaskID != "" {
					fmt.Fprintf(out, "  Series: %s\n", t.ParentTaskID)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")
	return cmd
}

func newClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				count, err := a.store.ClearCompleted()
				if err != nil {
					return fmt.Errorf("failed to clear completed tasks: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %d completed task(s)\n", count)
				return nil
			})
		},
	}
}
