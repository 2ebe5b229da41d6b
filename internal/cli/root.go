package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/datekey"
	"github.com/MikeBiancalana/planit/internal/holiday"
	"github.com/MikeBiancalana/planit/internal/logger"
	"github.com/MikeBiancalana/planit/internal/tui"
)

// now is the clock every command resolves relative dates against.
var now = time.Now

// NewRootCmd builds the planit command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planit",
		Short:         "planit - personal task calendar",
		Long:          `A terminal task calendar with recurring tasks, tags, holidays and undo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}

	rootCmd.AddCommand(
		newAddCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newDoneCmd(true),
		newDoneCmd(false),
		newMoveCmd(),
		newShowCmd(),
		newClearCompletedCmd(),
		newDayCmd(),
		newWeekCmd(),
		newMonthCmd(),
		newUpcomingCmd(),
		newSearchCmd(),
		newTagsCmd(),
		newStatsCmd(),
		newUndoCmd(),
		newRedoCmd(),
		newHistoryCmd(),
		newExportCmd(),
		newImportCmd(),
		newHolidaysCmd(),
		newNotesCmd(),
		newThemeCmd(),
	)
	return rootCmd
}

// runTUI launches the interactive calendar. Logs go to a file so they do
// not draw over the UI.
func runTUI(cmd *cobra.Command) error {
	if err := logger.InitializeWithConfig(logger.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		TUIMode: true,
	}); err != nil {
		return err
	}
	defer logger.Close()

	return withApp(cmd.Context(), func(a *app) error {
		model := tui.NewModel(tui.Config{
			Store:    a.store,
			History:  a.history,
			Tags:     a.tags,
			Holidays: a.holidays,
			Records:  a.kv,
			Logger:   a.logger,
		})

		if source := a.holidays.Source(); !strings.Contains(source, "://") {
			watcher, err := startWatcher(source, a)
			if err != nil {
				a.logger.Warn("runTUI", "operation", "holiday watcher disabled", "error", err)
			} else {
				defer watcher.Stop()
				model.SetWatcher(watcher)
			}
		}

		if spec := a.settings.HolidayRefresh; spec != "" {
			scheduler, err := holiday.NewScheduler(spec, a.holidays, a.logger)
			if err != nil {
				a.logger.Warn("runTUI", "error", err)
			} else {
				scheduler.Start()
				defer scheduler.Stop()
			}
		}

		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err := p.Run()
		return err
	})
}

// Execute runs the root command
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func startWatcher(source string, a *app) (*holiday.Watcher, error) {
	watcher, err := holiday.NewWatcher(source, a.logger)
	if err != nil {
		return nil, err
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return nil, err
	}
	return watcher, nil
}

// resolveDate accepts the relative forms of datekey.Resolve; empty means
// today.
func resolveDate(input string) (string, error) {
	if input == "" {
		input = "today"
	}
	return datekey.Resolve(input, now())
}
