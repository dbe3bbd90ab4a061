// Package transcript reads the host's JSONL conversation transcript.
//
// Every read is tail-windowed: Tail returns at most the last N lines found in
// the last M bytes of the file, with each line's absolute end offset so
// callers can measure from a position without re-reading. Lines that are not
// valid JSON are skipped.
//
// Record carries only what the memory hooks need: the role, the concatenated
// text blocks, and tool invocations with the file they touched.
package transcript
