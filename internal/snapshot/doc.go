// Package snapshot produces structured snapshot entries from the best source
// available and appends them to a session's record.
//
// Sources are tried in a fixed order and the first that yields an entry wins:
//
//  1. LivingState: the Goal/Progress/Findings sections of state.md, once the
//     document has grown past its template size.
//  2. CategoryNotes: the latest captured fact, context, and intent notes.
//  3. TranscriptMining: tool, file, and prompt signals from the transcript
//     tail, with any marker lines found there taking precedence per field.
//
// Every entry a source returns has all three fields filled, using explicit
// placeholders where a signal is missing, so a successful write always leaves
// the record valid.
package snapshot
