package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/datekey"
)

func newHolidaysCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List holidays from the configured holiday source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if month != "" {
				first, err := datekey.ParseMonth(month)
				if err != nil {
					return err
				}
				prefix = first[:8]
			}

			return withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				overlay := a.holidays.Overlay()
				if overlay.Len() == 0 {
					fmt.Fprintf(out, "No holidays loaded from %s\n", a.holidays.Source())
					return nil
				}

				for _, date := range overlay.Dates() {
					if prefix != "" && date[:8] != prefix {
						continue
					}
					h, _ := overlay.HolidayFor(date)
					fmt.Fprintf(out, "%s  %s", date, holidayStyle.Render(h.Title))
					if h.Type != "" {
						fmt.Fprintf(out, " [%s]", h.Type)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Only this month (YYYY-MM)")
	return cmd
}
