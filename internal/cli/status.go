package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mci-memory/mci/internal/briefing"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/store"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(projectFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return env.Status(cmd.OutOrStdout())
		},
	}
}

// Status writes a summary of the store and the current session
func (e *Env) Status(w io.Writer) error {
	bold := color.New(color.Bold).SprintFunc()
	ok := color.GreenString
	warn := color.YellowString

	fmt.Fprintln(w, bold("MCI Status"))
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "Project:  %s\n", e.ProjectDir)

	if !e.Store.Initialized() {
		fmt.Fprintf(w, "Store:    %s (%s)\n", e.Store.Base, warn("not initialized"))
		return nil
	}
	fmt.Fprintf(w, "Store:    %s\n", e.Store.Base)

	sess, err := e.Store.ResolveCurrent(e.Now())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(w, "Session:  %s\n", warn("none today"))
		return nil
	}
	if err != nil {
		return err
	}

	state := ok("OPEN")
	if sess.Terminated() {
		state = color.HiBlackString("ENDED")
	}
	fmt.Fprintf(w, "Session:  %s [%s]\n", sess.String(), state)
	fmt.Fprintf(w, "state.md: %s\n", briefing.StateStatus(sess, e.Config.Snapshot.StateMinBytes))

	rec, err := sess.Record().Load()
	validity := ok("VALID")
	switch {
	case err != nil:
		validity = color.RedString("MALFORMED")
	case !rec.Valid():
		validity = warn("INVALID")
	}
	fmt.Fprintf(w, "Record:   %d entries (%s)\n", rec.Len(), validity)
	if cur, found := rec.Current(); found {
		fmt.Fprintf(w, "  Latest: %s @ %s\n", cur.Label, cur.Stamp)
	}

	counts := make([]string, 0, len(memory.RecoveryCategories))
	for _, c := range memory.RecoveryCategories {
		notes, _ := sess.Notes(c).Load()
		counts = append(counts, fmt.Sprintf("%s %d", strings.ToLower(c.Title()), len(notes)))
	}
	fmt.Fprintf(w, "Notes:    %s\n", strings.Join(counts, ", "))

	if backups := sess.Backups(); len(backups) > 0 {
		fmt.Fprintf(w, "Backups:  %d\n", len(backups))
	}
	if p, err := e.Store.PeekPending(); err == nil {
		fmt.Fprintf(w, "Reset:    %s since %s\n", warn("pending"), p.Time)
	}
	return nil
}
