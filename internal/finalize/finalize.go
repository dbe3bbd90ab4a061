// Package finalize closes a session: it forces a last snapshot, writes the
// terminal summary, marks the narrative log, and indexes the record.
package finalize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mci-memory/mci/internal/snapshot"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/transcript"
	"github.com/mci-memory/mci/pkg/types"
)

// StopIntent is the next-step used when the transcript yields none
const StopIntent = "Continue from last topic next session."

// Indexer receives the session's record after finalization
type Indexer interface {
	IndexSession(sess *store.Session, now time.Time) (int, error)
}

// Finalizer runs the end-of-session steps
type Finalizer struct {
	Writer          *snapshot.Writer
	SummaryMaxBytes int64
	Indexer         Indexer // optional
	Logger          *slog.Logger
}

// Result reports what Finalize did
type Result struct {
	StateSnapshot bool // the living state was captured
	Fallback      snapshot.Outcome
	Summary       *types.SessionSummary
	SummaryPath   string
	Indexed       int
}

// New returns a finalizer writing through w
func New(w *snapshot.Writer, summaryMaxBytes int64) *Finalizer {
	return &Finalizer{Writer: w, SummaryMaxBytes: summaryMaxBytes, Logger: slog.Default()}
}

// Finalize never leaves a session with an invalid record when a transcript
// is readable and the record is writable. Write failures are logged and
// skipped so the summary and end marker still land.
func (f *Finalizer) Finalize(ctx context.Context) (*Result, error) {
	w := f.Writer
	sess := w.Session
	res := &Result{}

	out, err := w.Write(ctx, snapshot.TriggerStop, w.LivingState())
	if err != nil {
		f.Logger.Warn("state snapshot failed", "session", sess.String(), "error", err)
	}
	res.StateSnapshot = out.Written

	rec, _ := sess.Record().Load()
	if !rec.Valid() {
		res.Fallback, err = w.Write(ctx, snapshot.TriggerStop, w.Notes(), w.Mining(StopIntent))
		if err != nil {
			f.Logger.Warn("fallback snapshot failed", "session", sess.String(), "error", err)
		}
	}

	now := w.Now()
	summary := f.summarize(now, res)
	res.Summary = summary
	if summary != nil {
		res.SummaryPath = sess.Path(store.SummaryFile)
		if err := os.WriteFile(res.SummaryPath, []byte(RenderSummary(summary, now)), 0644); err != nil {
			f.Logger.Warn("failed to write session summary", "session", sess.String(), "error", err)
			res.SummaryPath = ""
		}
	}

	state := "MISSING"
	if _, err := os.Stat(sess.Path(store.StateFile)); err == nil {
		state = "EXISTS"
	}
	if err := sess.AppendNarrative(now.Format("15:04:05"), "SESSION ENDED [state.md: "+state+"]"); err != nil {
		f.Logger.Warn("failed to append end marker", "session", sess.String(), "error", err)
	}

	if f.Indexer != nil {
		n, err := f.Indexer.IndexSession(sess, now)
		if err != nil {
			f.Logger.Warn("catalog indexing failed", "session", sess.String(), "error", err)
		}
		res.Indexed = n
	}

	return res, nil
}

// summarize gathers terminal statistics; nil when no transcript is readable
func (f *Finalizer) summarize(now time.Time, res *Result) *types.SessionSummary {
	w := f.Writer
	if w.Transcript == "" {
		return nil
	}
	win, err := transcript.Tail(w.Transcript, 0, f.SummaryMaxBytes)
	if err != nil {
		f.Logger.Warn("transcript unreadable for summary", "path", w.Transcript, "error", err)
		return nil
	}
	stats := transcript.Collect(win.Records(), w.Options.WriteTools)

	sess := w.Session
	s := &types.SessionSummary{
		Session:       sess.Name(),
		Date:          sess.Date,
		StartedAt:     "unknown",
		EndedAt:       now,
		UserMessages:  stats.UserTurns,
		ToolCalls:     stats.ToolCalls,
		StateDocument: "MISSING",
	}
	if meta, err := sess.Meta(); err == nil {
		s.StartedAt = meta.CreatedAt.Format("15:04:05")
	}
	if rec, _ := sess.Record().Load(); rec != nil {
		s.RecordEntries = rec.Len()
	}
	if info, err := os.Stat(sess.Path(store.StateFile)); err == nil {
		s.StateDocument = fmt.Sprintf("EXISTS (%d bytes)", info.Size())
	}

	switch {
	case res.StateSnapshot:
		s.SnapshotSource = "state.md snapshot"
	case res.Fallback.Written:
		s.SnapshotSource = res.Fallback.Source
	default:
		s.SnapshotSource = "none"
	}

	top := stats.TopTools(summaryTools)
	if len(top) > 0 {
		s.Tools = make(map[string]int, len(top))
		for _, tc := range top {
			s.Tools[tc.Name] = tc.Count
		}
	}
	s.Files = stats.Files
	if len(s.Files) > summaryFiles {
		s.Files = s.Files[:summaryFiles]
	}
	return s
}
