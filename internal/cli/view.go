package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
)

// viewFlags filter and format the listing commands.
type viewFlags struct {
	tag    string
	color  string
	format string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tag, "tag", calendar.AllTags, "Only tasks with this tag")
	cmd.Flags().StringVar(&f.color, "color", calendar.AllTags, "Only tasks with this color")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format (text, json, tsv, csv)")
}

// listDates prints the filtered tasks of every date in dates.
func (f *viewFlags) listDates(cmd *cobra.Command, a *app, dates []string) error {
	format, err := parseFormat(f.format)
	if err != nil {
		return err
	}

	tasks := make([]calendar.Task, 0)
	for _, date := range dates {
		day := a.tags.TasksForDate(date, f.tag)
		tasks = append(tasks, calendar.FilterByColor(day, f.color)...)
	}
	return writeTasks(cmd.OutOrStdout(), format, tasks)
}

func newDayCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:     "day [date]",
		Aliases: []string{"today"},
		Short:   "List the tasks of one day (default today)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(argOrEmpty(args))
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				return flags.listDates(cmd, a, []string{date})
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newWeekCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "week [date]",
		Short: "List the tasks of the week (Sunday to Saturday) containing date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(argOrEmpty(args))
			if err != nil {
				return err
			}
			start, err := datekey.WeekStart(date)
			if err != nil {
				return err
			}
			end, err := datekey.AddDays(start, 6)
			if err != nil {
				return err
			}
			dates, err := datekey.Range(start, end)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				return flags.listDates(cmd, a, dates)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newMonthCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "List the tasks of a month (default the current month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			first := datekey.Today(now())
			if len(args) == 1 {
				var err error
				if first, err = datekey.ParseMonth(args[0]); err != nil {
					return err
				}
			}
			dates, err := datekey.MonthDays(first)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				return flags.listDates(cmd, a, dates)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newUpcomingCmd() *cobra.Command {
	var (
		days   int
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the next incomplete tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				tasks, err := a.store.Upcoming(datekey.Today(now()), days, limit)
				if err != nil {
					return fmt.Errorf("failed to list upcoming tasks: %w", err)
				}
				return writeTasks(cmd.OutOrStdout(), outFormat, tasks)
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", calendar.UpcomingDays, "Days to look ahead, today included")
	cmd.Flags().IntVar(&limit, "limit", calendar.UpcomingLimit, "Maximum number of tasks")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, tsv, csv)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks by title, description, time or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(flags.format)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				found := a.tags.Filter(flags.tag, a.store.Search(args[0]))
				return writeTasks(cmd.OutOrStdout(), format, calendar.FilterByColor(found, flags.color))
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newTagsCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List tags with their task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				counts := a.tags.Counts()
				out := cmd.OutOrStdout()
				if jsonFlag {
					return json.NewEncoder(out).Encode(counts)
				}

				fmt.Fprintf(out, "%-16s %d\n", calendar.AllTags, counts.Total)
				tags := make([]string, 0, len(counts.ByTag))
				for tag := range counts.ByTag {
					tags = append(tags, tag)
				}
				sort.Strings(tags)
				for _, tag := range tags {
					fmt.Fprintf(out, "#%-15s %d\n", tag, counts.ByTag[tag])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics and the current streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				stats := a.store.Stats()
				streak := a.store.Streak(datekey.Today(now()))
				out := cmd.OutOrStdout()

				if jsonFlag {
					return json.NewEncoder(out).Encode(struct {
						calendar.Stats
						Streak int `json:"streak"`
					}{stats, streak})
				}

				fmt.Fprintf(out, "Total:      %d\n", stats.Total)
				fmt.Fprintf(out, "Completed:  %d\n", stats.Completed)
				fmt.Fprintf(out, "Pending:    %d\n", stats.Pending)
				fmt.Fprintf(out, "Completion: %d%%\n", stats.CompletionRate)
				fmt.Fprintf(out, "Streak:     %d day(s)\n", streak)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")
	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
