package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past sessions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			env, err := loadEnv(projectFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return env.History(cmd.OutOrStdout(), days)
		},
	}
	listCmd.Flags().Int("days", 7, "Number of days to show")

	cmd.AddCommand(listCmd)
	return cmd
}

// History lists the sessions of the most recent days, newest first
func (e *Env) History(w io.Writer, limit int) error {
	days, err := e.Store.Days()
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Fprintln(w, "No session history found.")
		return nil
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}

	for _, day := range days {
		sessions, err := e.Store.Sessions(day)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (%d sessions)\n", day, len(sessions))
		for _, s := range sessions {
			state := color.GreenString("%-6s", "OPEN")
			if s.Terminated() {
				state = color.HiBlackString("%-6s", "ENDED")
			}
			rec, _ := s.Record().Load()
			last := "-"
			if t, err := s.LastActivity(); err == nil {
				last = t.Format("15:04")
			}
			fmt.Fprintf(w, "  %-12s %s %3d entries  last %s\n", s.Name(), state, rec.Len(), last)
		}
		fmt.Fprintln(w)
	}
	return nil
}
