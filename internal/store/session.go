package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/pkg/types"
)

// Artifact names inside a session directory
const (
	NarrativeFile = "memory.md"
	RecordFile    = "memory.mci"
	StateFile     = "state.md"
	FactsFile     = "facts.md"
	ContextFile   = "context.md"
	IntentFile    = "intent.md"
	SummaryFile   = "session-summary.md"
	MetaFile      = "session.yaml"
	backupPrefix  = "compact-"
)

// EndMarker is the narrative-log text written on clean termination
const EndMarker = "SESSION ENDED"

// Session is a handle on one session directory
type Session struct {
	Dir     string
	Date    string
	Ordinal int
}

// Name returns the directory name, e.g. session-3
func (s *Session) Name() string {
	return sessionPrefix + strconv.Itoa(s.Ordinal)
}

// Path returns the path of an artifact in the session
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Exists reports whether the session directory exists
func (s *Session) Exists() bool {
	info, err := os.Stat(s.Dir)
	return err == nil && info.IsDir()
}

// Record returns the structured snapshot record log
func (s *Session) Record() *memory.RecordLog {
	return memory.NewRecordLog(s.Path(RecordFile))
}

// Notes returns the log for a category. Informational notes share the
// narrative log.
func (s *Session) Notes(c memory.Category) *memory.NoteLog {
	switch c {
	case memory.CategoryFact:
		return memory.NewNoteLog(s.Path(FactsFile), c)
	case memory.CategoryContext:
		return memory.NewNoteLog(s.Path(ContextFile), c)
	case memory.CategoryIntent:
		return memory.NewNoteLog(s.Path(IntentFile), c)
	default:
		return memory.NewNoteLog(s.Path(NarrativeFile), memory.CategoryInfo)
	}
}

// LastActivity returns the narrative log's modification time
func (s *Session) LastActivity() (time.Time, error) {
	info, err := os.Stat(s.Path(NarrativeFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%s narrative log: %w", s.Name(), ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("stat %s narrative log: %w", s.Name(), err)
	}
	return info.ModTime(), nil
}

// EndedCleanly reports whether the narrative log carries the end marker
func (s *Session) EndedCleanly() bool {
	data, err := os.ReadFile(s.Path(NarrativeFile))
	if err != nil {
		return false
	}
	return bytes.Contains(bytes.ToUpper(data), []byte(EndMarker))
}

// HasSummary reports whether a terminal summary was written
func (s *Session) HasSummary() bool {
	_, err := os.Stat(s.Path(SummaryFile))
	return err == nil
}

// Terminated reports whether either clean-termination signal is present
func (s *Session) Terminated() bool {
	return s.EndedCleanly() || s.HasSummary()
}

// StateSize returns the living state document's size, 0 if absent
func (s *Session) StateSize() int64 {
	info, err := os.Stat(s.Path(StateFile))
	if err != nil {
		return 0
	}
	return info.Size()
}

// AppendNarrative adds a timestamped heading line to the narrative log
func (s *Session) AppendNarrative(stamp, text string) error {
	return s.Notes(memory.CategoryInfo).Append(memory.Note{Stamp: stamp, Text: text})
}

// Backups returns pre-reset conversation backups, oldest first
func (s *Session) Backups() []string {
	matches, _ := filepath.Glob(filepath.Join(s.Dir, backupPrefix+"*.md"))
	sort.Strings(matches)
	return matches
}

// BackupPath returns the backup path for a reset at the given time
func (s *Session) BackupPath(at time.Time) string {
	return s.Path(backupPrefix + at.Format("15-04-05") + ".md")
}

// Ensure creates the session directory and any missing artifacts. Existing
// artifacts are never overwritten. created is true when the directory was new.
func (s *Session) Ensure(now time.Time) (created bool, err error) {
	created = !s.Exists()
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return false, fmt.Errorf("create %s: %w", s.Name(), err)
	}

	narrative := fmt.Sprintf("# Session %d - Started %s\n---\n", s.Ordinal, now.Format("15:04:05"))
	if err := writeIfMissing(s.Path(NarrativeFile), []byte(narrative)); err != nil {
		return created, err
	}
	if err := writeIfMissing(s.Path(StateFile), []byte(stateTemplate(created))); err != nil {
		return created, err
	}
	for _, c := range memory.RecoveryCategories {
		if err := s.Notes(c).Init(s.Ordinal); err != nil {
			return created, err
		}
	}

	meta := types.SessionMeta{
		ID:        uuid.New().String(),
		Date:      s.Date,
		Ordinal:   s.Ordinal,
		CreatedAt: now,
	}
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return created, fmt.Errorf("marshal session meta: %w", err)
	}
	if err := writeIfMissing(s.Path(MetaFile), data); err != nil {
		return created, err
	}

	return created, nil
}

// Meta reads the session identity file
func (s *Session) Meta() (*types.SessionMeta, error) {
	data, err := os.ReadFile(s.Path(MetaFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s meta: %w", s.Name(), ErrNotFound)
		}
		return nil, fmt.Errorf("read %s meta: %w", s.Name(), err)
	}

	var meta types.SessionMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s meta: %w", s.Name(), err)
	}
	return &meta, nil
}

// String returns date/session-N
func (s *Session) String() string {
	return s.Date + "/" + s.Name()
}

func stateTemplate(fresh bool) string {
	goal := "(What are you working on and why?)"
	progress := "- [ ] Waiting for direction"
	findings := "(none yet)"
	if !fresh {
		goal = "(Resumed session: restate the mission)"
		progress = "- [ ] (current tasks)"
		findings = "(update as you learn)"
	}
	return strings.Join([]string{
		"# Session State",
		"",
		"## Goal",
		goal,
		"",
		"## Progress",
		progress,
		"",
		"## Findings",
		findings,
		"",
	}, "\n")
}

func writeIfMissing(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
