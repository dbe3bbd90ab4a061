package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/testutil"
)

func setupCatalog(t *testing.T) (*Catalog, *store.Store) {
	t.Helper()
	env := testutil.NewEnv(t)

	c, err := Open(filepath.Join(env.Base, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c, store.New(env.Base)
}

func seedSession(t *testing.T, st *store.Store, date string, ordinal int, entries ...memory.Entry) *store.Session {
	t.Helper()
	sess := st.Session(date, ordinal)
	_, err := sess.Ensure(testutil.Noon(2026, 3, 1))
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, sess.Record().Append(e))
	}
	return sess
}

func TestIndexSessionIdempotent(t *testing.T) {
	t.Parallel()
	c, st := setupCatalog(t)
	now := testutil.Noon(2026, 3, 1)

	sess := seedSession(t, st, "2026-03-01", 1,
		memory.Entry{Label: "[PC] state.md Snapshot", Stamp: "10:00:00", Memory: "GOAL: parser", Context: "PROGRESS: lexer", Intent: "FINDINGS: none"},
	)

	n, err := c.IndexSession(sess, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.IndexSession(sess, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "already indexed")

	require.NoError(t, sess.Record().Append(memory.Entry{Label: "[STOP] state.md Snapshot", Stamp: "11:00:00", Memory: "GOAL: grammar", Context: "c", Intent: "i"}))
	n, err = c.IndexSession(sess, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the appended entry")

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	c, st := setupCatalog(t)
	now := testutil.Noon(2026, 3, 1)

	seedSession(t, st, "2026-02-28", 1, memory.Entry{Label: "a", Memory: "Parser rewrite started", Context: "c", Intent: "i"})
	seedSession(t, st, "2026-03-01", 2, memory.Entry{Label: "b", Memory: "parser done", Context: "lexer 100%", Intent: "i"})
	seedSession(t, st, "2026-03-01", 10, memory.Entry{Label: "c", Memory: "unrelated", Context: "c", Intent: "i"})

	n, err := c.Rebuild(st, now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := c.Search("parser", 10)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, "2026-03-01", res.Results[0].Date, "newest first")
	assert.Equal(t, "session-2", res.Results[0].Session)
	assert.False(t, res.Results[0].IndexedAt.IsZero())

	res, err = c.Search("parser lexer", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count, "all terms must match")

	res, err = c.Search("100%", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	res, err = c.Search("", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "session-10", res.Results[0].Session)
}
