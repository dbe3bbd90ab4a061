package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLog(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "s", "memory.mci")
	log := NewRecordLog(path)

	rec, err := log.Load()
	require.NoError(t, err)
	assert.False(t, rec.Valid())
	assert.False(t, log.HasContent())

	require.NoError(t, log.Append(Entry{Label: "one", Stamp: "10:00:00", Memory: "m1", Context: "c1", Intent: "i1"}))
	require.NoError(t, log.Append(Entry{Label: "two", Stamp: "11:00:00", Memory: "m2", Context: "c2", Intent: "i2"}))

	assert.True(t, log.HasContent())
	rec, err = log.Load()
	require.NoError(t, err)
	require.Equal(t, 2, rec.Len())
	cur, ok := rec.Current()
	require.True(t, ok)
	assert.Equal(t, "m2", cur.Memory)
}

func TestNoteLog(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "facts.md")
	log := NewNoteLog(path, CategoryFact)

	require.NoError(t, log.Init(1))
	require.NoError(t, log.Append(Note{Stamp: "09:00", Text: "a"}, Note{Stamp: "09:01", Text: "b"}))
	// Init never truncates an existing log
	require.NoError(t, log.Init(1))

	notes, err := log.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, Texts(notes))
	assert.Equal(t, []string{"b"}, Texts(log.Recent(1)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Facts - Session 1")
}

func TestNoteLogMissing(t *testing.T) {
	t.Parallel()
	log := NewNoteLog(filepath.Join(t.TempDir(), "missing.md"), CategoryIntent)

	notes, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.Empty(t, log.Recent(3))
}
