package recovery

import (
	"context"

	"github.com/mci-memory/mci/internal/session"
)

// Recovery is everything reconstructed for an activation
type Recovery struct {
	Snapshot Snapshot
	Found    bool
	Notes    Notes
	// NotesLoaded is set when the activation warranted supplementary notes,
	// even if none existed
	NotesLoaded bool
}

// TargetFor returns the search target of an applied activation
func TargetFor(a *session.Activation) Target {
	return Target{Date: a.Date, Session: a.Session, Previous: a.Previous}
}

// Recover runs the cascade and, when warranted, loads notes from the
// activation's recovery source regardless of the cascade result
func (l *Loader) Recover(ctx context.Context, a *session.Activation) Recovery {
	var r Recovery
	r.Snapshot, r.Found = l.Load(ctx, TargetFor(a))

	if WantNotes(a, r.Found) {
		r.Notes = l.LoadNotes(a.RecoverySource())
		r.NotesLoaded = true
	}
	return r
}
