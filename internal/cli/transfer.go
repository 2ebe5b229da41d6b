package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every task as JSON or ICS",
		Long: `Export every stored task. Without -o the file lands in the exports
directory as planit-tasks-<date>.<ext>; "-o -" writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "ics" {
				return fmt.Errorf("unsupported export format: %s (supported: json, ics)", format)
			}

			return withApp(cmd.Context(), func(a *app) error {
				var buf bytes.Buffer
				var err error
				if format == "ics" {
					err = a.store.ExportICS(&buf, now())
				} else {
					err = a.store.ExportJSON(&buf)
				}
				if err != nil {
					return err
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}

				path := output
				if path == "" {
					if path, err = a.files.ExportPath(datekey.Today(now()), format); err != nil {
						return fmt.Errorf("failed to get export path: %w", err)
					}
				}
				if err := a.files.WriteDocument(path, buf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d task(s) to %s\n", a.store.Len(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format (json, ics)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks with a JSON export",
		Long: `Replace every stored task with the contents of a JSON export. A file
that is not a date to task-list mapping is rejected and nothing changes.
The import itself can be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			days, err := calendar.ParseImport(data)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(a *app) error {
				if err := a.store.Import(days); err != nil {
					return fmt.Errorf("failed to import tasks: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d task(s) across %d date(s)\n", a.store.Len(), len(a.store.Dates()))
				return nil
			})
		},
	}
}
