package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/hook"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/testutil"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) (*Env, *clock, *testutil.TestEnv) {
	t.Helper()
	te := testutil.NewEnv(t)

	cfg := config.DefaultConfig()
	cfg.Transcript.SearchRoot = ""
	cfg.Snapshot.CheckpointInterval = 2

	c := &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)}
	e := NewEnv(te.ProjectDir, cfg)
	e.Now = c.now
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return e, c, te
}

func additionalContext(t *testing.T, out hook.Output) string {
	t.Helper()
	require.NotNil(t, out.HookSpecificOutput)
	return out.HookSpecificOutput.AdditionalContext
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	e, c, te := newTestEnv(t)
	ctx := context.Background()

	// First activation creates the store
	out, err := e.SessionStart(ctx, hook.Input{})
	require.NoError(t, err)
	text := additionalContext(t, out)
	assert.Contains(t, text, "[+] SESSION: #1 (NEW) (FIRST RUN)")
	assert.Contains(t, text, "MCI: EMPTY - no recovery possible")

	sess, err := e.Store.ResolveCurrent(c.now())
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Ordinal)

	// A turn with markers
	c.advance(time.Minute)
	tr := testutil.NewTranscript().
		User("find the flaky test").
		Tool("Edit", map[string]any{"file_path": "/src/retry_test.go"}).
		Assistant("[!] the retry test depends on wall-clock time\n[>] inject a clock into the retrier\nordinary text")
	path := tr.Write(t, te.Home, "conv.jsonl")

	out, err = e.PromptCapture(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput, "no pressure on a small transcript")

	facts, err := sess.Notes(memory.CategoryFact).Load()
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "the retry test depends on wall-clock time", facts[0].Text)
	assert.Equal(t, "10:01", facts[0].Stamp)

	// Second prompt hits the checkpoint interval
	_, err = e.PromptCapture(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	rec, err := sess.Record().Load()
	require.NoError(t, err)
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, "[AUTO #2] Auto-Assembled from marker files", rec.Entries[0].Label)

	// Reset
	c.advance(time.Minute)
	out, err = e.PreCompact(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput)

	pending, err := e.Store.PeekPending()
	require.NoError(t, err)
	assert.True(t, pending.Valid)
	assert.Equal(t, sess.Record().Path, pending.RecordPath)
	assert.Len(t, sess.Backups(), 1)

	narrative := te.ReadFile(sess.Path(store.NarrativeFile))
	assert.Contains(t, narrative, "PRE-COMPACT [MCI: SAVED]")

	// Session start right after the reset resumes and reports it
	testutil.Touch(t, sess.Path(store.NarrativeFile), c.now())
	c.advance(time.Second)
	out, err = e.SessionStart(ctx, hook.Input{})
	require.NoError(t, err)
	text = additionalContext(t, out)
	assert.Contains(t, text, "[+] SESSION: #1 (RESUMED)")
	assert.Contains(t, text, "=== POST-COMPACT RECOVERY ===")
	assert.Contains(t, text, "MCI: LOADED from current session")
	assert.Contains(t, text, "inject a clock into the retrier")

	_, err = e.Store.PeekPending()
	assert.ErrorIs(t, err, store.ErrNotFound, "marker consumed")

	// Stop
	c.advance(time.Minute)
	out, err = e.SessionStop(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput)
	assert.True(t, sess.Terminated())
	assert.True(t, sess.HasSummary())

	// The catalog was indexed by the finalizer
	var buf bytes.Buffer
	require.NoError(t, e.Search(&buf, "retrier", 5, false))
	assert.Contains(t, buf.String(), "Found 1 results")
}

func TestPreCompactEmergency(t *testing.T) {
	t.Parallel()
	e, c, te := newTestEnv(t)
	ctx := context.Background()

	_, err := e.SessionStart(ctx, hook.Input{})
	require.NoError(t, err)

	path := testutil.NewTranscript().
		User("rename the package").
		Tool("Write", map[string]any{"file_path": "/src/new.go"}).
		Write(t, te.Home, "conv.jsonl")

	c.advance(time.Minute)
	_, err = e.PreCompact(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)

	pending, err := e.Store.PeekPending()
	require.NoError(t, err)
	assert.False(t, pending.Valid)
	assert.True(t, pending.Emergency)

	sess, err := e.Store.ResolveCurrent(c.now())
	require.NoError(t, err)
	rec, err := sess.Record().Load()
	require.NoError(t, err)
	cur, ok := rec.Current()
	require.True(t, ok)
	assert.Equal(t, "[PC] EMERGENCY from JSONL", cur.Label)
	assert.Contains(t, te.ReadFile(sess.Path(store.NarrativeFile)), "PRE-COMPACT [MCI: EMERGENCY]")

	backup := te.ReadFile(sess.Backups()[0])
	assert.Contains(t, backup, "AUTO-GENERATED")
}

func TestPreCompactWithoutSession(t *testing.T) {
	t.Parallel()
	e, c, te := newTestEnv(t)
	ctx := context.Background()

	path := testutil.NewTranscript().
		User("split the config loader").
		Tool("Edit", map[string]any{"file_path": "/src/loader.go"}).
		Write(t, te.Home, "conv.jsonl")

	out, err := e.PreCompact(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput)

	pending, err := e.Store.PeekPending()
	require.NoError(t, err)
	assert.True(t, pending.Emergency)

	sess, err := e.Store.ResolveCurrent(c.now())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01/session-1", sess.String())

	rec, err := sess.Record().Load()
	require.NoError(t, err)
	cur, ok := rec.Current()
	require.True(t, ok)
	assert.Equal(t, "[PC] EMERGENCY from JSONL", cur.Label)
	assert.Len(t, sess.Backups(), 1)
	assert.Contains(t, te.ReadFile(sess.Path(store.NarrativeFile)), "PRE-COMPACT [MCI: EMERGENCY]")
}

func TestPromptCaptureAfterNewPrompt(t *testing.T) {
	t.Parallel()
	e, c, te := newTestEnv(t)
	ctx := context.Background()

	_, err := e.SessionStart(ctx, hook.Input{})
	require.NoError(t, err)

	path := testutil.NewTranscript().
		User("first").
		Assistant("[!] fact A").
		User("second prompt").
		Write(t, te.Home, "conv.jsonl")

	c.advance(time.Minute)
	_, err = e.PromptCapture(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)

	sess, err := e.Store.ResolveCurrent(c.now())
	require.NoError(t, err)
	facts, err := sess.Notes(memory.CategoryFact).Load()
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "fact A", facts[0].Text)
}

func TestPromptCapturePressure(t *testing.T) {
	t.Parallel()
	e, _, te := newTestEnv(t)
	e.Config.Pressure = config.PressureConfig{ContextLimit: 1000, Advisory: 100, Warning: 200, Emergency: 900}
	ctx := context.Background()

	_, err := e.SessionStart(ctx, hook.Input{})
	require.NoError(t, err)

	path := testutil.NewTranscript().
		User(strings.Repeat("a", 150)).
		Assistant("ok").
		Write(t, te.Home, "conv.jsonl")

	out, err := e.PromptCapture(ctx, hook.Input{TranscriptPath: path})
	require.NoError(t, err)
	assert.Contains(t, additionalContext(t, out), "[PC] WARNING")
}

func TestPromptCaptureWithoutSession(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEnv(t)

	out, err := e.PromptCapture(context.Background(), hook.Input{})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput)
	assert.False(t, e.Store.Initialized())
}

func TestSessionStopWithoutSession(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEnv(t)

	out, err := e.SessionStop(context.Background(), hook.Input{})
	require.NoError(t, err)
	assert.True(t, out.SuppressOutput)
}

func TestCatalogPath(t *testing.T) {
	t.Parallel()
	e, _, te := newTestEnv(t)
	assert.Equal(t, filepath.Join(te.ProjectDir, ".claude-memory", "catalog.db"), e.CatalogPath())

	e.Config.Catalog.Enabled = false
	cat, err := e.OpenCatalog()
	require.NoError(t, err)
	assert.Nil(t, cat)
	_, statErr := os.Stat(e.CatalogPath())
	assert.True(t, os.IsNotExist(statErr))
}
