package recovery

import (
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/session"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/pkg/types"
)

// NoteLimits bounds how many recent notes per category are loaded
type NoteLimits struct {
	Facts   int
	Context int
	Intent  int
}

// Notes are recent category notes from one session
type Notes struct {
	Session *store.Session
	Facts   []memory.Note
	Context []memory.Note
	Intent  []memory.Note
}

// Empty reports whether no category has notes
func (n Notes) Empty() bool {
	return len(n.Facts) == 0 && len(n.Context) == 0 && len(n.Intent) == 0
}

// WantNotes reports whether an activation warrants supplementary notes:
// after a crash or reset, or when a resumed session found a snapshot
func WantNotes(a *session.Activation, found bool) bool {
	return a.Crashed() || a.PostReset || (a.State == types.StateResumed && found)
}

// LoadNotes reads the most recent notes of each recovery category
func (l *Loader) LoadNotes(sess *store.Session) Notes {
	return Notes{
		Session: sess,
		Facts:   sess.Notes(memory.CategoryFact).Recent(l.Limits.Facts),
		Context: sess.Notes(memory.CategoryContext).Recent(l.Limits.Context),
		Intent:  sess.Notes(memory.CategoryIntent).Recent(l.Limits.Intent),
	}
}
