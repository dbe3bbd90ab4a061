package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search snapshot entries across all sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			rebuild, _ := cmd.Flags().GetBool("rebuild")
			env, err := loadEnv(projectFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return env.Search(cmd.OutOrStdout(), strings.Join(args, " "), limit, rebuild)
		},
	}
	cmd.Flags().Int("limit", 10, "Max results")
	cmd.Flags().Bool("rebuild", false, "Rebuild the catalog from the store first")
	return cmd
}

// Search queries the catalog, building it first when asked or when empty
func (e *Env) Search(w io.Writer, query string, limit int, rebuild bool) error {
	cat, err := e.OpenCatalog()
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("catalog is disabled (catalog.enabled: false)")
	}
	defer cat.Close()

	if !rebuild {
		n, err := cat.Count()
		if err != nil {
			return err
		}
		rebuild = n == 0
	}
	if rebuild {
		n, err := cat.Rebuild(e.Store, e.Now())
		if err != nil {
			return fmt.Errorf("rebuild catalog: %w", err)
		}
		e.Logger.Info("catalog rebuilt", "entries", n)
	}

	result, err := cat.Search(query, limit)
	if err != nil {
		return err
	}
	if result.Count == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d results:\n\n", result.Count)
	for _, r := range result.Results {
		fmt.Fprintf(w, "%s %s\n", color.CyanString("%s/%s", r.Date, r.Session), color.HiBlackString("%s @ %s", r.Label, r.Stamp))
		fmt.Fprintf(w, "  Memory:  %s\n", clip(r.Memory, 100))
		fmt.Fprintf(w, "  Context: %s\n", clip(r.Context, 100))
		fmt.Fprintf(w, "  Intent:  %s\n", clip(r.Intent, 100))
		fmt.Fprintln(w)
	}
	return nil
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
