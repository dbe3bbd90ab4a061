package snapshot

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/transcript"
)

// Placeholders for missing living-state sections
const (
	NoGoal     = "No goal set"
	NoProgress = "No progress tracked"
	NoFindings = "No findings yet"
)

var headingRe = regexp.MustCompile(`(?m)^## `)

// Section returns the body under "## name" up to the next level-two heading,
// trimmed and cut to max runes
func Section(content, name string, max int) string {
	re := regexp.MustCompile(`(?m)^## ` + regexp.QuoteMeta(name) + `[ \t]*\r?$`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	rest := content[loc[1]:]
	if next := headingRe.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return transcript.Truncate(strings.TrimSpace(rest), max)
}

// LivingState snapshots the session's state document
type LivingState struct {
	Path        string
	MinBytes    int
	GoalMax     int
	ProgressMax int
	FindingsMax int
}

// NewLivingState returns the living-state source for path
func NewLivingState(path string, opts Options) *LivingState {
	return &LivingState{
		Path:        path,
		MinBytes:    opts.StateMinBytes,
		GoalMax:     opts.GoalMax,
		ProgressMax: opts.ProgressMax,
		FindingsMax: opts.FindingsMax,
	}
}

func (s *LivingState) Name() string { return "state.md Snapshot" }

// Active reports whether the document has grown past the template threshold
func (s *LivingState) Active() bool {
	info, err := os.Stat(s.Path)
	return err == nil && info.Size() > int64(s.MinBytes)
}

// Attempt succeeds whenever the document passes the size gate
func (s *LivingState) Attempt(ctx context.Context) (memory.Entry, bool) {
	if ctx.Err() != nil {
		return memory.Entry{}, false
	}
	data, err := os.ReadFile(s.Path)
	if err != nil || len(data) <= s.MinBytes {
		return memory.Entry{}, false
	}
	content := string(data)

	return memory.Entry{
		Memory:  "GOAL: " + orDefault(Section(content, "Goal", s.GoalMax), NoGoal),
		Context: "PROGRESS: " + orDefault(Section(content, "Progress", s.ProgressMax), NoProgress),
		Intent:  "FINDINGS: " + orDefault(Section(content, "Findings", s.FindingsMax), NoFindings),
	}, true
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
