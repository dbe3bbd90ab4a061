package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mci-memory/mci/internal/briefing"
	"github.com/mci-memory/mci/internal/finalize"
	"github.com/mci-memory/mci/internal/hook"
	"github.com/mci-memory/mci/internal/markers"
	"github.com/mci-memory/mci/internal/pressure"
	"github.com/mci-memory/mci/internal/recovery"
	"github.com/mci-memory/mci/internal/session"
	"github.com/mci-memory/mci/internal/snapshot"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/transcript"
)

// SessionStart classifies the activation, applies it, and returns the
// recovery payload
func (e *Env) SessionStart(ctx context.Context, in hook.Input) (hook.Output, error) {
	now := e.Now()

	d, err := session.Classify(e.Store, now, session.PolicyFromConfig(e.Config))
	if err != nil {
		return hook.Output{}, err
	}

	a, err := session.Apply(e.Store, d, now)
	if err != nil {
		if a == nil || !a.Session.Exists() {
			return hook.Output{}, err
		}
		e.Logger.Warn("session apply incomplete", "session", d.Session.String(), "error", err)
	}

	e.Logger.Info("session classified",
		"session", a.Session.String(),
		"state", string(a.State),
		"idle", a.Idle.Round(time.Second).String(),
		"post_reset", a.PostReset,
		"first_run", a.FirstRun,
	)

	loader := recovery.NewLoader(e.Store, e.Config)
	loader.Logger = e.Logger
	r := loader.Recover(ctx, a)
	if r.Found {
		e.Logger.Info("snapshot recovered", "provenance", r.Snapshot.Provenance)
	} else {
		e.Logger.Debug("no snapshot found")
	}

	text := briefing.Generate(a, r, e.ProjectDir, e.Config, now).Render()
	return hook.Context(hook.EventSessionStart, text), nil
}

// PromptCapture records markers from the last assistant turn, writes a
// periodic checkpoint, and warns when context pressure is high
func (e *Env) PromptCapture(ctx context.Context, in hook.Input) (hook.Output, error) {
	now := e.Now()
	sess, err := e.Store.ResolveCurrent(now)
	if errors.Is(err, store.ErrNotFound) {
		return hook.Suppress(), nil
	}
	if err != nil {
		return hook.Output{}, err
	}

	after, _ := sess.LastActivity()
	path, found := e.Transcript(in.TranscriptPath, after)

	if found {
		e.captureMarkers(sess, path, now)
	}

	n, err := e.Store.NextPrompt()
	if err != nil {
		e.Logger.Warn("prompt counter unavailable", "error", err)
	} else if snapshot.Due(n, e.Config.Snapshot.CheckpointInterval) {
		out, err := e.Writer(sess, path).Checkpoint(ctx, n)
		if err != nil {
			e.Logger.Warn("checkpoint failed", "prompt", n, "error", err)
		} else {
			e.Logger.Info("checkpoint written", "prompt", n, "source", out.Source)
		}
	}

	if !found {
		return hook.Suppress(), nil
	}
	est, err := pressure.Measure(path, e.Config.Transcript.PressureLines, e.Config.Transcript.MaxTailBytes, pressure.ThresholdsFromConfig(e.Config))
	if err != nil {
		e.Logger.Warn("pressure measurement failed", "error", err)
		return hook.Suppress(), nil
	}
	rec, _ := sess.Record().Load()
	msg := pressure.Advisory(est, sess.Record().Path, rec.Len())
	if msg != "" {
		e.Logger.Info("context pressure", "tier", est.Tier.String(), "effective", est.Effective)
	}
	return hook.Context(hook.EventPrompt, msg), nil
}

func (e *Env) captureMarkers(sess *store.Session, path string, now time.Time) {
	win, err := transcript.Tail(path, e.Config.Transcript.CaptureLines, e.Config.Transcript.MaxTailBytes)
	if err != nil {
		e.Logger.Warn("transcript unreadable", "path", path, "error", err)
		return
	}
	text, ok := transcript.LastAssistantText(win.Records())
	if !ok {
		return
	}
	ex := markers.Extract(text, e.Config.Markers.PerTurnLimit)
	if ex.Count() == 0 {
		return
	}
	n, err := markers.Capture(sess, ex, now.Format("15:04"))
	if err != nil {
		e.Logger.Warn("marker capture incomplete", "error", err)
	}
	e.Logger.Debug("markers captured", "count", n)
}

// PreCompact guarantees a snapshot, backs up the recent conversation, and
// leaves a reset marker for the next session start
func (e *Env) PreCompact(ctx context.Context, in hook.Input) (hook.Output, error) {
	now := e.Now()
	stamp := now.Format("15:04:05")
	sess, err := e.Store.ResolveCurrent(now)
	if errors.Is(err, store.ErrNotFound) {
		sess, err = e.adoptSession(now)
	}
	if err != nil {
		return hook.Output{}, fmt.Errorf("resolve session: %w", err)
	}

	path, found := e.Transcript(in.TranscriptPath, time.Time{})
	w := e.Writer(sess, path)

	out, err := w.Ensure(ctx, snapshot.TriggerReset)
	if err != nil {
		e.Logger.Warn("pre-compact snapshot failed", "error", err)
	}
	emergency := out.Written && out.Source == w.Mining("").Name()

	rec, _ := sess.Record().Load()
	valid := rec.Valid() && !emergency

	if found {
		if err := e.writeBackup(sess, path, valid, now); err != nil {
			e.Logger.Warn("conversation backup failed", "error", err)
		}
	}

	pending := store.Pending{Time: stamp, RecordPath: sess.Record().Path, Valid: valid, Emergency: !valid}
	if err := e.Store.WritePending(pending); err != nil {
		e.Logger.Warn("failed to write reset marker", "error", err)
	}

	status := "SAVED"
	if !valid {
		status = "EMERGENCY"
	}
	if err := sess.AppendNarrative(stamp, "PRE-COMPACT [MCI: "+status+"]"); err != nil {
		e.Logger.Warn("failed to append narrative", "error", err)
	}

	e.Logger.Info("pre-compact", "session", sess.String(), "status", status, "source", out.Source)
	return hook.Suppress(), nil
}

// adoptSession creates today's first session for a reset that arrives
// before any session start
func (e *Env) adoptSession(now time.Time) (*store.Session, error) {
	sess := e.Store.Session(now.Format(store.DateLayout), 1)
	if _, err := sess.Ensure(now); err != nil {
		return nil, err
	}
	if err := e.Store.WriteCurrent(sess); err != nil {
		e.Logger.Warn("failed to write current pointer", "error", err)
	}
	e.Logger.Info("session adopted for pre-compact", "session", sess.String())
	return sess, nil
}

func (e *Env) writeBackup(sess *store.Session, path string, valid bool, now time.Time) error {
	win, err := transcript.Tail(path, e.Config.Transcript.ResetLines, e.Config.Transcript.MaxTailBytes)
	if err != nil {
		return err
	}
	opts := transcript.DefaultBackupOptions()
	opts.RecordValid = valid
	opts.Stamp = now.Format("15:04:05")
	return os.WriteFile(sess.BackupPath(now), []byte(transcript.RenderBackup(win.Records(), opts)), 0644)
}

// SessionStop finalizes the current session
func (e *Env) SessionStop(ctx context.Context, in hook.Input) (hook.Output, error) {
	now := e.Now()
	sess, err := e.Store.ResolveCurrent(now)
	if errors.Is(err, store.ErrNotFound) {
		return hook.Suppress(), nil
	}
	if err != nil {
		return hook.Output{}, err
	}

	path, _ := e.Transcript(in.TranscriptPath, time.Time{})
	f := finalize.New(e.Writer(sess, path), e.Config.Transcript.SummaryMaxBytes)
	f.Logger = e.Logger

	cat, err := e.OpenCatalog()
	if err != nil {
		e.Logger.Warn("catalog unavailable", "error", err)
	} else if cat != nil {
		defer cat.Close()
		f.Indexer = cat
	}

	res, err := f.Finalize(ctx)
	if err != nil {
		return hook.Output{}, err
	}
	e.Logger.Info("session finalized",
		"session", sess.String(),
		"state_snapshot", res.StateSnapshot,
		"fallback", res.Fallback.Source,
		"indexed", res.Indexed,
	)
	return hook.Suppress(), nil
}
