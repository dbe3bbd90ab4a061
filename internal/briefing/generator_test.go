package briefing

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/recovery"
	"github.com/mci-memory/mci/internal/session"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/testutil"
	"github.com/mci-memory/mci/pkg/types"
)

var briefNow = time.Date(2026, 3, 2, 9, 15, 0, 0, time.Local)

func newActivation(t *testing.T, env *testutil.TestEnv, state types.State) *session.Activation {
	t.Helper()
	sess := store.New(env.Base).Session("2026-03-02", 3)
	_, err := sess.Ensure(briefNow)
	require.NoError(t, err)
	return &session.Activation{
		Decision: session.Decision{
			Verdict: session.Verdict{Ordinal: 3, State: state},
			Date:    "2026-03-02",
			Session: sess,
		},
	}
}

func TestStateStatus(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	sess := store.New(env.Base).Session("2026-03-02", 1)

	assert.Equal(t, "EMPTY", StateStatus(sess, 200))

	_, err := sess.Ensure(briefNow)
	require.NoError(t, err)
	assert.Equal(t, "TEMPLATE", StateStatus(sess, 200))

	testutil.WriteFile(t, sess.Path(store.StateFile), strings.Repeat("x", 201))
	assert.Equal(t, "ACTIVE (201 bytes)", StateStatus(sess, 200))
}

func TestRenderFreshSession(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	a := newActivation(t, env, types.StateNew)
	a.FirstRun = true

	out := Generate(a, recovery.Recovery{}, env.ProjectDir, config.DefaultConfig(), briefNow).Render()

	assert.True(t, strings.HasPrefix(out, "# MCI Session - 2026-03-02 09:15:00\n"))
	assert.Contains(t, out, "[+] SESSION: #3 (NEW) (FIRST RUN)")
	assert.Contains(t, out, "state.md: TEMPLATE")
	assert.Contains(t, out, "MCI: EMPTY - no recovery possible")
	assert.Contains(t, out, "Post-Compact: No")
	assert.Contains(t, out, "Crash: No")
	assert.Contains(t, out, "=== FIRST RUN ===")
	assert.Contains(t, out, "| [!] | Critical fact | facts.md |")
	assert.Contains(t, out, "| [i] | Info note | memory.md |")
	assert.NotContains(t, out, "=== Identity ===")
}

func TestRenderRecovery(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	a := newActivation(t, env, types.StateCrashRecovered)

	prev := store.New(env.Base).Session("2026-03-01", 2)
	raw := "\n--- [PC] state.md Snapshot @ 18:00:00 ---\nMemory: GOAL: ship\nContext: PROGRESS: half\nIntent: FINDINGS: none\n"
	r := recovery.Recovery{
		Found: true,
		Snapshot: recovery.Snapshot{
			Session:    prev,
			Tier:       recovery.TierPriorDay,
			Provenance: "prior day 2026-03-01 (session-2)",
			Raw:        raw,
		},
		NotesLoaded: true,
		Notes: recovery.Notes{
			Session: a.Session,
			Facts:   []memory.Note{{Stamp: "17:50", Text: "cache keys include tenant"}},
			Intent:  []memory.Note{{Stamp: "17:55", Text: "wire the finalizer"}},
		},
	}

	testutil.WriteFile(t, filepath.Join(env.ProjectDir, IdentityFile), strings.Repeat("a", 2000))

	out := Generate(a, r, env.ProjectDir, config.DefaultConfig(), briefNow).Render()

	assert.Contains(t, out, "[+] SESSION: #3 (CRASH_RECOVERED)")
	assert.Contains(t, out, "MCI: LOADED from prior day 2026-03-01 (session-2)")
	assert.Contains(t, out, "=== CRASH RECOVERY ===")
	assert.Contains(t, out, "Recovering in place.")
	assert.Contains(t, out, "Memory: GOAL: ship")
	assert.Contains(t, out, "Facts (last 1):\n  - 17:50 cache keys include tenant\n")
	assert.Contains(t, out, "Intent (last 1):\n  - 17:55 wire the finalizer\n")
	assert.NotContains(t, out, "Context (last")

	start := strings.Index(out, "=== Identity ===\n") + len("=== Identity ===\n")
	end := strings.Index(out[start:], "\n")
	assert.Equal(t, 1000, end, "identity capped at 1000 chars")
}

func TestRenderPostReset(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	a := newActivation(t, env, types.StateResumed)
	a.PostReset = true
	a.Pending = store.Pending{Time: "09:10:00", RecordPath: a.Session.Record().Path, Valid: true}

	out := Generate(a, recovery.Recovery{}, env.ProjectDir, config.DefaultConfig(), briefNow).Render()

	assert.Contains(t, out, "Post-Compact: YES - READ state.md NOW")
	assert.Contains(t, out, "=== POST-COMPACT RECOVERY ===")
	assert.Contains(t, out, "Compact info: 09:10:00|")
	assert.NotContains(t, out, "=== CRASH RECOVERY ===")
}
