// Package store manages the on-disk snapshot store: day partitions of session
// directories plus the pointer files kept at the store base.
//
// Layout:
//
//	<base>/
//	  current-session          path of the active session directory
//	  compact-pending          TIME|record|valid|emergency, consumed once
//	  prompt-counter           turns seen since the last new session
//	  sessions/<YYYY-MM-DD>/session-<N>/
//	    memory.md              narrative log
//	    memory.mci             structured snapshot record
//	    state.md               living state document
//	    facts.md context.md intent.md
//	    session.yaml           identity, written once
//	    session-summary.md     terminal summary
//	    compact-HH-MM-SS.md    pre-reset conversation backups
//
// Absent artifacts are reported as ErrNotFound and never treated as fatal.
package store
