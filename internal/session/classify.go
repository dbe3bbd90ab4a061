// Package session decides, on each activation, whether to resume the most
// recent session of the day or start a new one, and whether the session being
// left behind ended cleanly.
//
// Classification is split in two. Classify only reads the store and is safe
// to call repeatedly; Apply performs the side effects (creating artifacts,
// writing the current-session pointer, consuming the reset marker).
package session

import (
	"fmt"
	"time"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/pkg/types"
)

// Policy holds the continuity heuristics
type Policy struct {
	// ResumeWindow is how long after its last activity a session may be resumed
	ResumeWindow time.Duration
	// CrashGrace is the idle time below which a session is assumed mid-turn
	CrashGrace time.Duration
}

// PolicyFromConfig extracts the classifier policy
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		ResumeWindow: cfg.Session.ResumeWindow,
		CrashGrace:   cfg.Session.CrashGrace,
	}
}

// Observation is what the classifier knows about today's newest session
type Observation struct {
	MaxOrdinal   int  // 0 when today has no sessions
	Readable     bool // newest session's narrative log could be read
	LastActivity time.Time
	Terminated   bool // end marker or terminal summary present
}

// Verdict is the outcome of Decide
type Verdict struct {
	Ordinal         int
	State           types.State
	Idle            time.Duration
	PreviousExpired bool // the newest session timed out and is kept as recovery source
	PreviousCrashed bool // ...and it lacks both termination signals
}

// Decide maps an observation to a verdict. It performs no I/O.
func Decide(obs Observation, now time.Time, p Policy) Verdict {
	if obs.MaxOrdinal <= 0 {
		return Verdict{Ordinal: 1, State: types.StateNew}
	}
	if !obs.Readable {
		return Verdict{Ordinal: obs.MaxOrdinal + 1, State: types.StateNew}
	}

	idle := now.Sub(obs.LastActivity)
	if idle < 0 {
		idle = 0
	}

	if idle < p.ResumeWindow {
		v := Verdict{Ordinal: obs.MaxOrdinal, State: types.StateResumed, Idle: idle}
		if !obs.Terminated && idle > p.CrashGrace {
			v.State = types.StateCrashRecovered
		}
		return v
	}

	return Verdict{
		Ordinal:         obs.MaxOrdinal + 1,
		State:           types.StateNew,
		Idle:            idle,
		PreviousExpired: true,
		PreviousCrashed: !obs.Terminated,
	}
}

// Decision is a verdict bound to session handles
type Decision struct {
	Verdict
	Date     string
	Session  *store.Session
	Previous *store.Session // nil unless the newest session timed out
}

// Crashed reports whether recovery should treat the prior activity as
// interrupted
func (d Decision) Crashed() bool {
	return d.State == types.StateCrashRecovered || d.PreviousCrashed
}

// Observe reads today's newest session without modifying anything
func Observe(st *store.Store, date string) (Observation, *store.Session, error) {
	sessions, err := st.Sessions(date)
	if err != nil {
		return Observation{}, nil, err
	}
	if len(sessions) == 0 {
		return Observation{}, nil, nil
	}

	latest := sessions[0]
	obs := Observation{MaxOrdinal: latest.Ordinal}

	// A missing or unreadable narrative log never yields a resume
	last, err := latest.LastActivity()
	if err != nil {
		return obs, latest, nil
	}
	obs.Readable = true
	obs.LastActivity = last
	obs.Terminated = latest.Terminated()
	return obs, latest, nil
}

// Classify decides the session for an activation at now. It only reads.
func Classify(st *store.Store, now time.Time, p Policy) (Decision, error) {
	date := now.Format(store.DateLayout)

	obs, latest, err := Observe(st, date)
	if err != nil {
		return Decision{}, fmt.Errorf("observe %s: %w", date, err)
	}

	v := Decide(obs, now, p)
	d := Decision{
		Verdict: v,
		Date:    date,
		Session: st.Session(date, v.Ordinal),
	}
	if v.PreviousExpired {
		d.Previous = latest
	}
	return d, nil
}
