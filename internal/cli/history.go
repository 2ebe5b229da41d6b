package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				label, ok, err := a.history.Undo()
				if err != nil {
					return fmt.Errorf("failed to undo: %w", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Undid: %s\n", label)
				return nil
			})
		},
	}
}

func newRedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				label, ok, err := a.history.Redo()
				if err != nil {
					return fmt.Errorf("failed to redo: %w", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to redo")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Redid: %s\n", label)
				return nil
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the undoable changes, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				if clear {
					if err := a.history.Clear(); err != nil {
						return fmt.Errorf("failed to clear history: %w", err)
					}
					fmt.Fprintln(out, "✓ History cleared")
					return nil
				}

				entries := a.history.Entries()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No history")
					return nil
				}
				for i, e := range entries {
					fmt.Fprintf(out, "%2d. %-20s %s  (%d tasks before)\n",
						i+1, e.Action, e.Timestamp.Format("2006-01-02 15:04:05"), e.Tasks.Len())
				}
				if a.history.CanRedo() {
					fmt.Fprintf(out, "%d change(s) can be redone\n", a.history.RedoLen())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Forget all undo and redo entries")
	return cmd
}
