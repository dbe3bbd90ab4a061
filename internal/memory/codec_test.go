package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextCodecRecordRoundTrip(t *testing.T) {
	t.Parallel()
	codec := TextCodec{}

	entries := []Entry{
		{Label: "[PC] state.md Snapshot", Stamp: "09:15:02", Memory: "GOAL: ship it", Context: "PROGRESS: - [x] parser\n- [ ] lexer", Intent: "FINDINGS: none"},
		{Label: "[AUTO] Checkpoint at prompt #10", Stamp: "09:40:00", Memory: "a", Context: "b", Intent: "c"},
	}

	var data []byte
	for _, e := range entries {
		data = append(data, codec.EncodeEntry(e)...)
	}

	rec, err := codec.DecodeRecord(data)
	require.NoError(t, err)
	require.Len(t, rec.Entries, 2)

	assert.Equal(t, entries[0].Label, rec.Entries[0].Label)
	assert.Equal(t, "09:15:02", rec.Entries[0].Stamp)
	assert.Equal(t, "PROGRESS: - [x] parser\n- [ ] lexer", rec.Entries[0].Context)

	cur, ok := rec.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.Memory)
}

func TestDecodeRecord(t *testing.T) {
	t.Parallel()
	codec := TextCodec{}

	t.Run("unindented continuation", func(t *testing.T) {
		t.Parallel()
		rec, err := codec.DecodeRecord([]byte("--- x @ 10:00:00 ---\nMemory: one\ntwo\nContext: c\nIntent: i\n"))
		require.NoError(t, err)
		require.Len(t, rec.Entries, 1)
		assert.Equal(t, "one\ntwo", rec.Entries[0].Memory)
	})

	t.Run("repeated field starts new entry", func(t *testing.T) {
		t.Parallel()
		rec, err := codec.DecodeRecord([]byte("Memory: a\nContext: b\nIntent: c\nMemory: d\nContext: e\nIntent: f\n"))
		require.NoError(t, err)
		require.Len(t, rec.Entries, 2)
		cur, ok := rec.Current()
		require.True(t, ok)
		assert.Equal(t, "d", cur.Memory)
		assert.Empty(t, cur.Label)
	})

	t.Run("incomplete last entry is not current", func(t *testing.T) {
		t.Parallel()
		rec, err := codec.DecodeRecord([]byte("--- a ---\nMemory: a\nContext: b\nIntent: c\n\n--- b ---\nMemory: only\n"))
		require.NoError(t, err)
		require.Len(t, rec.Entries, 2)
		cur, ok := rec.Current()
		require.True(t, ok)
		assert.Equal(t, "a", cur.Label)
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		t.Parallel()
		rec, err := codec.DecodeRecord([]byte("just some prose\nnothing structured\n"))
		assert.True(t, errors.Is(err, ErrMalformed))
		assert.False(t, rec.Valid())
	})

	t.Run("empty is not malformed", func(t *testing.T) {
		t.Parallel()
		rec, err := codec.DecodeRecord([]byte("  \n\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, rec.Len())
	})
}

func TestEntryComplete(t *testing.T) {
	t.Parallel()

	assert.True(t, Entry{Memory: "m", Context: "c", Intent: "i"}.Complete())
	assert.False(t, Entry{Memory: "m", Context: " ", Intent: "i"}.Complete())
	assert.False(t, Entry{}.Complete())

	var nilRecord *Record
	assert.False(t, nilRecord.Valid())
	assert.Equal(t, 0, nilRecord.Len())
}

func TestTextCodecNotes(t *testing.T) {
	t.Parallel()
	codec := TextCodec{}

	data := append([]byte{}, codec.EncodeHeader(CategoryFact, 3)...)
	data = append(data, codec.EncodeNote(Note{Stamp: "10:01", Text: "first"})...)
	data = append(data, codec.EncodeNote(Note{Stamp: "10:02", Text: "second\nline"})...)
	data = append(data, codec.EncodeNote(Note{Text: "no stamp"})...)

	assert.Contains(t, string(data), "# Facts - Session 3")

	notes, err := codec.DecodeNotes(data)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, Note{Stamp: "10:01", Text: "first"}, notes[0])
	assert.Equal(t, Note{Stamp: "10:02", Text: "second line"}, notes[1])
	assert.Equal(t, Note{Text: "no stamp"}, notes[2])
}

func TestRecent(t *testing.T) {
	t.Parallel()
	notes := []Note{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	assert.Equal(t, []string{"b", "c"}, Texts(Recent(notes, 2)))
	assert.Equal(t, []string{"a", "b", "c"}, Texts(Recent(notes, 10)))
	assert.Nil(t, Recent(notes, 0))
}
