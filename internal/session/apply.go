package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/pkg/types"
)

// Activation is an applied decision
type Activation struct {
	Decision
	Created   bool // the session directory was created by this activation
	FirstRun  bool // the store did not exist before this activation
	PostReset bool // a reset marker was pending and has been consumed
	Pending   store.Pending
}

// RecoverySource returns the session whose notes enrich recovery: the
// interrupted one when known, else the current one
func (a *Activation) RecoverySource() *store.Session {
	if a.Crashed() && a.Previous != nil {
		return a.Previous
	}
	return a.Session
}

// Apply materializes a decision: it ensures the session's artifacts without
// overwriting any, persists the current-session pointer, and consumes the
// reset marker.
func Apply(st *store.Store, d Decision, now time.Time) (*Activation, error) {
	a := &Activation{Decision: d, FirstRun: !st.Initialized()}

	created, err := d.Session.Ensure(now)
	if err != nil {
		return a, fmt.Errorf("ensure %s: %w", d.Session, err)
	}
	a.Created = created

	if err := st.WriteCurrent(d.Session); err != nil {
		return a, fmt.Errorf("write current session: %w", err)
	}

	pending, err := st.ConsumePending()
	switch {
	case err == nil:
		a.PostReset = true
		a.Pending = pending
	case !errors.Is(err, store.ErrNotFound):
		return a, fmt.Errorf("consume reset marker: %w", err)
	}

	stamp := now.Format("15:04:05")
	idle := d.Idle.Round(time.Second)
	switch d.State {
	case types.StateNew:
		if err := st.ResetPrompts(); err != nil {
			return a, fmt.Errorf("reset prompt counter: %w", err)
		}
	case types.StateResumed:
		if err := d.Session.AppendNarrative(stamp, fmt.Sprintf("SESSION RESUMED (idle %s)", idle)); err != nil {
			return a, fmt.Errorf("append narrative: %w", err)
		}
	case types.StateCrashRecovered:
		if err := d.Session.AppendNarrative(stamp, fmt.Sprintf("CRASH RECOVERED (idle %s)", idle)); err != nil {
			return a, fmt.Errorf("append narrative: %w", err)
		}
	}

	return a, nil
}
