package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a session, day, or pointer does not exist
var ErrNotFound = errors.New("not found")

// DateLayout is the day partition key format
const DateLayout = "2006-01-02"

const (
	sessionsDir    = "sessions"
	sessionPrefix  = "session-"
	currentPointer = "current-session"
	pendingPointer = "compact-pending"
	counterFile    = "prompt-counter"
)

// Store is a snapshot store rooted at Base
type Store struct {
	Base string
}

// New returns a store rooted at base. Nothing is created on disk.
func New(base string) *Store {
	return &Store{Base: base}
}

// SessionsRoot returns the directory holding the day partitions
func (s *Store) SessionsRoot() string {
	return filepath.Join(s.Base, sessionsDir)
}

// Initialized reports whether the store base and sessions root exist
func (s *Store) Initialized() bool {
	info, err := os.Stat(s.SessionsRoot())
	return err == nil && info.IsDir()
}

// Path returns a path under the store base
func (s *Store) Path(name string) string {
	return filepath.Join(s.Base, name)
}

// Days returns the day partitions, newest first. Directories whose names are
// not dates are ignored.
func (s *Store) Days() ([]string, error) {
	entries, err := os.ReadDir(s.SessionsRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list days: %w", err)
	}

	var days []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(DateLayout, e.Name()); err != nil {
			continue
		}
		days = append(days, e.Name())
	}

	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// DaysBefore returns up to limit partitions strictly before date, newest first
func (s *Store) DaysBefore(date string, limit int) ([]string, error) {
	days, err := s.Days()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, d := range days {
		if d >= date {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, d)
	}
	return out, nil
}

// Sessions returns the sessions of a day, highest ordinal first.
// Ordinals are compared numerically so session-10 sorts above session-9.
func (s *Store) Sessions(date string) ([]*Session, error) {
	dayDir := filepath.Join(s.SessionsRoot(), date)
	entries, err := os.ReadDir(dayDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions for %s: %w", date, err)
	}

	var sessions []*Session
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, ok := parseOrdinal(e.Name())
		if !ok {
			continue
		}
		sessions = append(sessions, s.Session(date, n))
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Ordinal > sessions[j].Ordinal
	})
	return sessions, nil
}

// Latest returns the highest-ordinal session of a day
func (s *Store) Latest(date string) (*Session, error) {
	sessions, err := s.Sessions(date)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("no sessions on %s: %w", date, ErrNotFound)
	}
	return sessions[0], nil
}

// Session returns a handle for the given day and ordinal without touching disk
func (s *Store) Session(date string, ordinal int) *Session {
	return &Session{
		Dir:     filepath.Join(s.SessionsRoot(), date, sessionPrefix+strconv.Itoa(ordinal)),
		Date:    date,
		Ordinal: ordinal,
	}
}

// Open returns a handle for an existing session directory
func (s *Store) Open(dir string) (*Session, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("session %s: %w", dir, ErrNotFound)
	}

	n, ok := parseOrdinal(filepath.Base(dir))
	if !ok {
		return nil, fmt.Errorf("session %s: not a session directory: %w", dir, ErrNotFound)
	}
	date := filepath.Base(filepath.Dir(dir))
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("session %s: no day partition: %w", dir, ErrNotFound)
	}

	return &Session{Dir: dir, Date: date, Ordinal: n}, nil
}

func parseOrdinal(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, sessionPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
