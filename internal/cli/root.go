// Package cli implements the mci command line: hook entry points invoked by
// the agent runtime and a handful of commands for inspecting the store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectFlag string
	version     = "dev"
)

// NewRootCmd assembles the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mci",
		Short: "MCI - session memory for a stateless agent",
		Long: `MCI keeps a durable memory of agent sessions on disk.

Hooks capture annotated notes every turn, snapshot the working state before
context resets, and inject the most recent usable state at session start.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "C", "", "Project directory (default: $CLAUDE_PROJECT_DIR or cwd)")

	rootCmd.AddCommand(newHookCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newRecallCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.Version = version
	return rootCmd
}

// Execute runs the root command
func Execute(v string) error {
	version = v
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mci %s\n", version)
		},
	}
}
