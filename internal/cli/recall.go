package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mci-memory/mci/internal/recovery"
	"github.com/mci-memory/mci/internal/snapshot"
	"github.com/mci-memory/mci/internal/store"
)

func newRecallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recall",
		Short: "Print the most recent usable snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(projectFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return env.Recall(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Checkpoint the current session now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcriptPath, _ := cmd.Flags().GetString("transcript")
			env, err := loadEnv(projectFlag)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return env.Save(cmd.Context(), cmd.OutOrStdout(), transcriptPath)
		},
	}
	cmd.Flags().String("transcript", "", "Transcript to mine when no other source has content")
	return cmd
}

// Recall prints the snapshot the session-start cascade would load
func (e *Env) Recall(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	now := e.Now()
	t := recovery.Target{Date: now.Format(store.DateLayout)}
	if sess, err := e.Store.ResolveCurrent(now); err == nil {
		t.Session = sess
	}

	loader := recovery.NewLoader(e.Store, e.Config)
	snap, found := loader.Load(ctx, t)
	if !found {
		fmt.Fprintln(w, "No snapshot found.")
		return nil
	}

	fmt.Fprintf(w, "Loaded from %s (%s)\n", snap.Provenance, snap.Session.Record().Path)
	if cur, ok := snap.Current(); ok {
		fmt.Fprintf(w, "\nLatest: %s @ %s\n", cur.Label, cur.Stamp)
		fmt.Fprintf(w, "  Memory:  %s\n", cur.Memory)
		fmt.Fprintf(w, "  Context: %s\n", cur.Context)
		fmt.Fprintf(w, "  Intent:  %s\n", cur.Intent)
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.TrimSpace(snap.Raw))
	return nil
}

// Save writes a manual snapshot to the current session
func (e *Env) Save(ctx context.Context, w io.Writer, transcriptPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := e.Store.ResolveCurrent(e.Now())
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no active session")
	}
	if err != nil {
		return err
	}

	path, _ := e.Transcript(transcriptPath, time.Time{})
	sw := e.Writer(sess, path)
	out, err := sw.Write(ctx, snapshot.TriggerSave, sw.Sources("Continue from last user message.")...)
	if err != nil {
		return err
	}
	if !out.Written {
		fmt.Fprintln(w, "Nothing to save: state.md is a template, no notes and no transcript.")
		return nil
	}
	fmt.Fprintf(w, "Saved %s to %s\n", out.Entry.Label, sess.Record().Path)
	return nil
}
