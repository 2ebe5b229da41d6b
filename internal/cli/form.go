package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/MikeBiancalana/planit/internal/calendar"
)

// runTaskForm asks for the fields of a new task interactively.
func runTaskForm(defaults calendar.TaskInput) (calendar.TaskInput, error) {
	var (
		title       string
		date        = defaults.Date
		timeOfDay   string
		description string
		color       = string(defaults.Color)
		tags        string
		repeat      string
		until       string
	)
	if color == "" {
		color = string(calendar.ColorBlue)
	}

	colorOptions := make([]huh.Option[string], 0, len(calendar.Colors))
	for _, c := range calendar.Colors {
		colorOptions = append(colorOptions, huh.NewOption(string(c), string(c)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task title").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Date").
				Value(&date).
				Validate(func(s string) error {
					_, err := resolveDate(s)
					return err
				}),
			huh.NewInput().
				Title("Time (optional, HH:MM)").
				Value(&timeOfDay).
				Validate(func(s string) error {
					if s != "" && !calendar.ValidTime(s) {
						return fmt.Errorf("time must be HH:MM")
					}
					return nil
				}),
			huh.NewText().
				Title("Description (optional)").
				Value(&description),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&color),
			huh.NewInput().
				Title("Tags (optional, comma-separated)").
				Value(&tags),
			huh.NewSelect[string]().
				Title("Repeat").
				Options(
					huh.NewOption("never", ""),
					huh.NewOption("daily", string(calendar.RecurDaily)),
					huh.NewOption("weekly", string(calendar.RecurWeekly)),
					huh.NewOption("monthly", string(calendar.RecurMonthly)),
				).
				Value(&repeat),
			huh.NewInput().
				Title("Repeat until (optional, default one year)").
				Value(&until),
		),
	)

	if err := form.Run(); err != nil {
		return calendar.TaskInput{}, fmt.Errorf("form cancelled: %w", err)
	}

	resolved, err := resolveDate(date)
	if err != nil {
		return calendar.TaskInput{}, err
	}

	in := calendar.TaskInput{
		Title:       title,
		Date:        resolved,
		Time:        timeOfDay,
		Description: description,
		Color:       calendar.Color(color),
		Tags:        strings.Split(tags, ","),
	}
	if repeat != "" {
		flags := taskFlags{repeat: repeat, every: 1, until: until}
		rule, err := flags.recurrence()
		if err != nil {
			return calendar.TaskInput{}, err
		}
		in.Recurrence = rule
	}
	return in, nil
}
