package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Pending is the reset-pending marker written before a compaction
type Pending struct {
	Time       string
	RecordPath string
	Valid      bool
	Emergency  bool
}

// String renders the single-line marker form
func (p Pending) String() string {
	return fmt.Sprintf("%s|%s|%t|%t", p.Time, p.RecordPath, p.Valid, p.Emergency)
}

// ParsePending parses the single-line marker form. Missing trailing fields
// default to false.
func ParsePending(line string) (Pending, error) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 || parts[0] == "" {
		return Pending{}, fmt.Errorf("invalid reset marker %q", line)
	}

	p := Pending{Time: parts[0], RecordPath: parts[1]}
	if len(parts) > 2 {
		p.Valid, _ = strconv.ParseBool(parts[2])
	}
	if len(parts) > 3 {
		p.Emergency, _ = strconv.ParseBool(parts[3])
	}
	return p, nil
}

// WriteCurrent persists the active session handle
func (s *Store) WriteCurrent(sess *Session) error {
	if err := os.MkdirAll(s.Base, 0755); err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return os.WriteFile(s.Path(currentPointer), []byte(sess.Dir), 0644)
}

// ReadCurrent returns the session named by the current-session pointer
func (s *Store) ReadCurrent() (*Session, error) {
	data, err := os.ReadFile(s.Path(currentPointer))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("current session pointer: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("read current session pointer: %w", err)
	}
	return s.Open(strings.TrimSpace(string(data)))
}

// ResolveCurrent returns the session an activation should act on: the
// pointer target, else the newest session of today.
func (s *Store) ResolveCurrent(now time.Time) (*Session, error) {
	sess, err := s.ReadCurrent()
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.Latest(now.Format(DateLayout))
}

// WritePending records that a reset is about to happen
func (s *Store) WritePending(p Pending) error {
	if err := os.MkdirAll(s.Base, 0755); err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return os.WriteFile(s.Path(pendingPointer), []byte(p.String()), 0644)
}

// PeekPending reads the reset marker without consuming it
func (s *Store) PeekPending() (Pending, error) {
	data, err := os.ReadFile(s.Path(pendingPointer))
	if err != nil {
		if os.IsNotExist(err) {
			return Pending{}, fmt.Errorf("reset marker: %w", ErrNotFound)
		}
		return Pending{}, fmt.Errorf("read reset marker: %w", err)
	}
	return ParsePending(string(data))
}

// ConsumePending reads and deletes the reset marker. An unparseable marker is
// still deleted and reported as present with no details.
func (s *Store) ConsumePending() (Pending, error) {
	p, err := s.PeekPending()
	if errors.Is(err, ErrNotFound) {
		return Pending{}, err
	}
	if rmErr := os.Remove(s.Path(pendingPointer)); rmErr != nil && !os.IsNotExist(rmErr) {
		return p, fmt.Errorf("remove reset marker: %w", rmErr)
	}
	if err != nil {
		return Pending{Time: "unknown"}, nil
	}
	return p, nil
}

// NextPrompt increments and returns the prompt counter
func (s *Store) NextPrompt() (int, error) {
	n := 0
	if data, err := os.ReadFile(s.Path(counterFile)); err == nil {
		n, _ = strconv.Atoi(strings.TrimSpace(string(data)))
	}
	n++
	if err := os.MkdirAll(s.Base, 0755); err != nil {
		return n, fmt.Errorf("create store: %w", err)
	}
	if err := os.WriteFile(s.Path(counterFile), []byte(strconv.Itoa(n)), 0644); err != nil {
		return n, fmt.Errorf("write prompt counter: %w", err)
	}
	return n, nil
}

// ResetPrompts zeroes the prompt counter
func (s *Store) ResetPrompts() error {
	err := os.Remove(s.Path(counterFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
