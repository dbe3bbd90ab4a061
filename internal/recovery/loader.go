// Package recovery locates the most recent usable snapshot for an activation
// and gathers the category notes that enrich it.
//
// The search is a cascade that stops at the first session whose record has
// content: the current session, the session that just timed out, the other
// sessions of today newest first, then earlier day partitions newest first up
// to the lookback bound.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mci-memory/mci/internal/cascade"
	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/store"
)

// Tier identifies which cascade step produced a snapshot
type Tier int

const (
	TierNone Tier = iota
	TierCurrent
	TierPrevious
	TierEarlierToday
	TierPriorDay
)

// Snapshot is a loaded record and where it came from
type Snapshot struct {
	Session    *store.Session
	Tier       Tier
	Provenance string
	Raw        string
	Record     *memory.Record
}

// Current returns the record's last complete entry
func (s Snapshot) Current() (memory.Entry, bool) {
	return s.Record.Current()
}

// Target names the sessions a search starts from
type Target struct {
	Date     string
	Session  *store.Session
	Previous *store.Session // may be nil
}

// Loader searches the store for snapshots
type Loader struct {
	Store        *store.Store
	LookbackDays int
	Limits       NoteLimits
	Logger       *slog.Logger
}

// NewLoader returns a loader configured from cfg
func NewLoader(st *store.Store, cfg *config.Config) *Loader {
	return &Loader{
		Store:        st,
		LookbackDays: cfg.Store.LookbackDays,
		Limits: NoteLimits{
			Facts:   cfg.Recovery.Facts,
			Context: cfg.Recovery.Context,
			Intent:  cfg.Recovery.Intent,
		},
		Logger: slog.Default(),
	}
}

// Sources returns the cascade for target in priority order
func (l *Loader) Sources(t Target) []cascade.Source[Snapshot] {
	sources := []cascade.Source[Snapshot]{
		&sessionScan{
			name: "current",
			tier: TierCurrent,
			list: func() []*store.Session { return []*store.Session{t.Session} },
			label: func(*store.Session) string {
				return "current session"
			},
		},
	}

	if t.Previous != nil {
		sources = append(sources, &sessionScan{
			name: "previous",
			tier: TierPrevious,
			list: func() []*store.Session { return []*store.Session{t.Previous} },
			label: func(*store.Session) string {
				return "previous session (timed out)"
			},
		})
	}

	sources = append(sources,
		&sessionScan{
			name: "earlier-today",
			tier: TierEarlierToday,
			list: func() []*store.Session { return l.earlierToday(t) },
			label: func(s *store.Session) string {
				return fmt.Sprintf("earlier today (%s)", s.Name())
			},
		},
		&sessionScan{
			name: "prior-days",
			tier: TierPriorDay,
			list: func() []*store.Session { return l.priorDays(t.Date) },
			label: func(s *store.Session) string {
				return fmt.Sprintf("prior day %s (%s)", s.Date, s.Name())
			},
		},
	)
	return sources
}

// Load returns the first snapshot the cascade finds
func (l *Loader) Load(ctx context.Context, t Target) (Snapshot, bool) {
	res, ok := cascade.First(ctx, l.Sources(t)...)
	if !ok {
		l.logger().Debug("no snapshot found", "date", t.Date)
		return Snapshot{}, false
	}
	l.logger().Debug("snapshot found", "source", res.Source, "provenance", res.Value.Provenance)
	return res.Value, true
}

func (l *Loader) earlierToday(t Target) []*store.Session {
	sessions, err := l.Store.Sessions(t.Date)
	if err != nil {
		l.logger().Warn("list sessions", "date", t.Date, "error", err)
		return nil
	}
	var out []*store.Session
	for _, s := range sessions {
		if sameSession(s, t.Session) || sameSession(s, t.Previous) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (l *Loader) priorDays(date string) []*store.Session {
	days, err := l.Store.DaysBefore(date, l.LookbackDays)
	if err != nil {
		l.logger().Warn("list days", "error", err)
		return nil
	}
	var out []*store.Session
	for _, d := range days {
		sessions, err := l.Store.Sessions(d)
		if err != nil {
			continue
		}
		out = append(out, sessions...)
	}
	return out
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func sameSession(a, b *store.Session) bool {
	return a != nil && b != nil && a.Dir == b.Dir
}

// sessionScan tries a lazily listed group of sessions in order
type sessionScan struct {
	name  string
	tier  Tier
	list  func() []*store.Session
	label func(*store.Session) string
}

func (s *sessionScan) Name() string { return s.name }

func (s *sessionScan) Attempt(ctx context.Context) (Snapshot, bool) {
	for _, sess := range s.list() {
		if ctx.Err() != nil {
			return Snapshot{}, false
		}
		if sess == nil {
			continue
		}
		snap, ok := loadSnapshot(sess)
		if !ok {
			continue
		}
		snap.Tier = s.tier
		snap.Provenance = s.label(sess)
		return snap, true
	}
	return Snapshot{}, false
}

// loadSnapshot reads a session's record if it has any content. Malformed
// content still counts; its parsed form is simply empty.
func loadSnapshot(sess *store.Session) (Snapshot, bool) {
	log := sess.Record()
	if !log.HasContent() {
		return Snapshot{}, false
	}
	raw, err := log.Raw()
	if err != nil {
		return Snapshot{}, false
	}
	rec, err := log.Codec.DecodeRecord(raw)
	if err != nil && !errors.Is(err, memory.ErrMalformed) {
		return Snapshot{}, false
	}
	return Snapshot{Session: sess, Raw: string(raw), Record: rec}, true
}
