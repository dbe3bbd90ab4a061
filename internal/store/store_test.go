package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/testutil"
)

func TestSessionsNumericOrder(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	s := New(env.Base)

	for _, n := range []int{1, 2, 9, 10} {
		require.NoError(t, os.MkdirAll(env.SessionDir("2026-03-01", n), 0755))
	}
	// Ignored: not a session directory
	require.NoError(t, os.MkdirAll(filepath.Join(env.Base, "sessions", "2026-03-01", "scratch"), 0755))

	sessions, err := s.Sessions("2026-03-01")
	require.NoError(t, err)
	require.Len(t, sessions, 4)
	assert.Equal(t, 10, sessions[0].Ordinal)
	assert.Equal(t, 1, sessions[3].Ordinal)

	latest, err := s.Latest("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "session-10", latest.Name())

	_, err = s.Latest("2026-03-02")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDays(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	s := New(env.Base)

	days, err := s.Days()
	require.NoError(t, err)
	assert.Empty(t, days)
	assert.False(t, s.Initialized())

	for _, d := range []string{"2026-02-27", "2026-03-01", "2026-02-28", "notes"} {
		require.NoError(t, os.MkdirAll(filepath.Join(env.Base, "sessions", d), 0755))
	}

	days, err = s.Days()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-02-28", "2026-02-27"}, days)
	assert.True(t, s.Initialized())

	before, err := s.DaysBefore("2026-03-01", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-28"}, before)

	before, err = s.DaysBefore("2026-03-01", 0)
	require.NoError(t, err)
	assert.Len(t, before, 2)
}

func TestSessionEnsure(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	s := New(env.Base)
	now := testutil.Noon(2026, 3, 1)

	sess := s.Session("2026-03-01", 1)
	created, err := sess.Ensure(now)
	require.NoError(t, err)
	assert.True(t, created)

	for _, name := range []string{NarrativeFile, StateFile, FactsFile, ContextFile, IntentFile, MetaFile} {
		assert.FileExists(t, sess.Path(name))
	}
	assert.Less(t, sess.StateSize(), int64(200), "template must stay under the active threshold")

	meta, err := sess.Meta()
	require.NoError(t, err)
	assert.Len(t, meta.ID, 36)
	assert.Equal(t, 1, meta.Ordinal)

	// Existing artifacts are preserved
	require.NoError(t, os.WriteFile(sess.Path(StateFile), []byte("custom"), 0644))
	created, err = sess.Ensure(now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(sess.Path(StateFile))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))

	again, err := sess.Meta()
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)
}

func TestTerminationSignals(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	s := New(env.Base)
	sess := s.Session("2026-03-01", 1)

	_, err := sess.LastActivity()
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = sess.Ensure(testutil.Noon(2026, 3, 1))
	require.NoError(t, err)
	assert.False(t, sess.Terminated())

	require.NoError(t, sess.AppendNarrative("18:00:00", "Session ended [state.md: MISSING]"))
	assert.True(t, sess.EndedCleanly(), "end marker is case-insensitive")

	other := s.Session("2026-03-01", 2)
	_, err = other.Ensure(testutil.Noon(2026, 3, 1))
	require.NoError(t, err)
	testutil.WriteFile(t, other.Path(SummaryFile), "---\n---\n")
	assert.True(t, other.Terminated())
	assert.False(t, other.EndedCleanly())
}

func TestSessionNotes(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	sess := New(env.Base).Session("2026-03-01", 1)

	assert.Equal(t, sess.Path(FactsFile), sess.Notes(memory.CategoryFact).Path)
	assert.Equal(t, sess.Path(IntentFile), sess.Notes(memory.CategoryIntent).Path)
	assert.Equal(t, sess.Path(NarrativeFile), sess.Notes(memory.CategoryInfo).Path)
	assert.Equal(t, sess.Path(RecordFile), sess.Record().Path)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	env := testutil.NewEnv(t)
	s := New(env.Base)

	_, err := s.Open(env.SessionDir("2026-03-01", 4))
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, os.MkdirAll(env.SessionDir("2026-03-01", 4), 0755))
	sess, err := s.Open(env.SessionDir("2026-03-01", 4))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", sess.Date)
	assert.Equal(t, 4, sess.Ordinal)
	assert.Equal(t, "2026-03-01/session-4", sess.String())
}
