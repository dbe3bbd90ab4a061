package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mci-memory/mci/internal/cascade"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/store"
)

// Trigger tags identify the event that caused a write
const (
	TriggerReset = "[PC]"
	TriggerStop  = "[STOP]"
	TriggerSave  = "[SAVE]"
)

// Source is a candidate producer of a snapshot entry
type Source = cascade.Source[memory.Entry]

// Writer appends snapshot entries to a session's record
type Writer struct {
	Session    *store.Session
	Options    Options
	Transcript string // may be empty
	Now        func() time.Time
	Logger     *slog.Logger
}

// Outcome describes what a write did
type Outcome struct {
	Entry   memory.Entry
	Source  string
	Written bool
	// AlreadyValid is set when Ensure found a valid record and wrote nothing
	AlreadyValid bool
}

// NewWriter returns a writer for sess
func NewWriter(sess *store.Session, opts Options, transcriptPath string, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{
		Session:    sess,
		Options:    opts,
		Transcript: transcriptPath,
		Now:        now,
		Logger:     slog.Default(),
	}
}

// LivingState returns the state-document source
func (w *Writer) LivingState() *LivingState {
	return NewLivingState(w.Session.Path(store.StateFile), w.Options)
}

// Notes returns the category-notes source taking the latest note per category
func (w *Writer) Notes() *CategoryNotes {
	return &CategoryNotes{Source: w.Session, Join: 1}
}

// Mining returns the transcript source over the reset window
func (w *Writer) Mining(intent string) *TranscriptMining {
	return &TranscriptMining{
		Path:       w.Transcript,
		Lines:      w.Options.ResetLines,
		MaxBytes:   w.Options.MaxTailBytes,
		WriteTools: w.Options.WriteTools,
		Intent:     intent,
	}
}

// Sources returns the full cascade in priority order
func (w *Writer) Sources(intent string) []Source {
	return []Source{w.LivingState(), w.Notes(), w.Mining(intent)}
}

// Write appends the first entry any source yields, labeled with trigger and
// the source's name. Nothing is written when every source declines.
func (w *Writer) Write(ctx context.Context, trigger string, sources ...Source) (Outcome, error) {
	res, ok := cascade.First(ctx, sources...)
	if !ok {
		w.Logger.Debug("no snapshot source succeeded", "session", w.Session.String(), "trigger", trigger)
		return Outcome{}, nil
	}

	entry := res.Value
	entry.Label = trigger + " " + res.Source
	entry.Stamp = w.Now().Format("15:04:05")
	entry.Source = res.Source

	if err := w.Session.Record().Append(entry); err != nil {
		return Outcome{Entry: entry, Source: res.Source}, fmt.Errorf("append snapshot: %w", err)
	}

	w.Logger.Info("snapshot written",
		"session", w.Session.String(),
		"trigger", trigger,
		"source", res.Source,
	)
	return Outcome{Entry: entry, Source: res.Source, Written: true}, nil
}

// Ensure guarantees a usable snapshot before a reset. The living state is
// always captured when active; otherwise an already valid record is left
// alone, and an invalid one falls back to notes then transcript mining.
func (w *Writer) Ensure(ctx context.Context, trigger string) (Outcome, error) {
	out, err := w.Write(ctx, trigger, w.LivingState())
	if err != nil || out.Written {
		return out, err
	}

	rec, _ := w.Session.Record().Load()
	if rec.Valid() {
		return Outcome{AlreadyValid: true}, nil
	}

	backup := filepath.Base(w.Session.BackupPath(w.Now()))
	intent := "Session interrupted by compact. Review " + backup + " for raw conversation."
	return w.Write(ctx, trigger, w.Notes(), w.Mining(intent))
}
