package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/storage"
	"github.com/MikeBiancalana/planit/internal/tui"
)

func newNotesCmd() *cobra.Command {
	var appendFlag bool

	cmd := &cobra.Command{
		Use:   "notes [text]",
		Short: "Show or replace the free-form notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				current, _, err := a.kv.Get(storage.KeyNotes)
				if err != nil {
					return fmt.Errorf("failed to read notes: %w", err)
				}

				if len(args) == 0 {
					if current == "" {
						fmt.Fprintln(cmd.OutOrStdout(), "No notes")
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), current)
					return nil
				}

				text := strings.Join(args, " ")
				if appendFlag && current != "" {
					text = current + "\n" + text
				}
				if err := a.kv.Set(storage.KeyNotes, text); err != nil {
					return fmt.Errorf("failed to save notes: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Notes saved")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&appendFlag, "append", "a", false, "Append a line instead of replacing")
	return cmd
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the interactive UI theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{tui.ThemeLight, tui.ThemeDark},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				if len(args) == 0 {
					theme, ok, err := a.kv.Get(storage.KeyTheme)
					if err != nil {
						return fmt.Errorf("failed to read theme: %w", err)
					}
					if !ok {
						theme = tui.ThemeDark
					}
					fmt.Fprintln(cmd.OutOrStdout(), theme)
					return nil
				}

				theme := strings.ToLower(args[0])
				if theme != tui.ThemeLight && theme != tui.ThemeDark {
					return fmt.Errorf("unknown theme %q (supported: light, dark)", args[0])
				}
				if err := a.kv.Set(storage.KeyTheme, theme); err != nil {
					return fmt.Errorf("failed to save theme: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme set to %s\n", theme)
				return nil
			})
		},
	}
}
