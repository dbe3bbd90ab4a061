// Package memory models the two durable logs a session keeps: the structured
// snapshot record and the category notes.
//
// Both are append-only. The record is a sequence of Memory/Context/Intent
// entries whose last complete entry is the session's current state; the notes
// are per-category sequences of short timestamped lines captured from agent
// output.
//
// The in-memory model (Record, Entry, Note) is independent of the on-disk form.
// RecordCodec and NotesCodec translate between the two; TextCodec implements
// the plain-text format:
//
//	--- [PC] state.md Snapshot @ 14:02:11 ---
//	Memory: GOAL: ship the parser
//	Context: PROGRESS: - [x] lexer
//	  - [ ] grammar
//	Intent: FINDINGS: none yet
//
// and for notes:
//
//	# Facts - Session 2
//
//	## 14:02 - parser handles nested blocks
//
// RecordLog and NoteLog bind a codec to a file path and provide Load/Append.
// A missing file loads as an empty log; unparseable content is skipped.
package memory
