package snapshot

import (
	"context"
	"strings"

	"github.com/mci-memory/mci/internal/markers"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/transcript"
)

const (
	minedTools   = 5
	minedFiles   = 10
	minedPrompts = 5
	promptChars  = 100
	promptTotal  = 200
	markerWindow = 20
)

// emergencyPrefix marks a synthesized memory field as a degraded source
const emergencyPrefix = "[EMERGENCY] "

// TranscriptMining builds an entry from the transcript tail. It is the last
// resort and succeeds whenever the transcript can be read.
type TranscriptMining struct {
	Path       string
	Lines      int
	MaxBytes   int64
	WriteTools []string
	// Intent is used when no next-step marker is found
	Intent string
}

func (s *TranscriptMining) Name() string { return "EMERGENCY from JSONL" }

func (s *TranscriptMining) Attempt(ctx context.Context) (memory.Entry, bool) {
	if ctx.Err() != nil || s.Path == "" {
		return memory.Entry{}, false
	}
	w, err := transcript.Tail(s.Path, s.Lines, s.MaxBytes)
	if err != nil {
		return memory.Entry{}, false
	}
	records := w.Records()
	return Mine(records, s.WriteTools, s.Intent), true
}

// Mine composes an entry from transcript records. Marker lines in assistant
// text override the synthesized value of their field; otherwise Memory
// carries the emergency prefix.
func Mine(records []transcript.Record, writeTools []string, intent string) memory.Entry {
	st := transcript.Collect(records, writeTools)

	e := memory.Entry{
		Memory:  emergencyPrefix + "Tools: " + orDefault(st.ToolSummary(minedTools), "none") + ". Files: " + orDefault(st.FileSummary(minedFiles), "none"),
		Context: "User discussing: " + orDefault(st.RecentPrompts(minedPrompts, promptChars, promptTotal), "none"),
		Intent:  orDefault(intent, "Continue from the last user message."),
	}

	var lines []string
	for _, r := range records {
		if r.Type != transcript.TypeAssistant || r.Text == "" {
			continue
		}
		lines = append(lines, strings.Split(r.Text, "\n")...)
	}
	last := markers.Last(lines, markerWindow)
	if v, ok := last[memory.CategoryFact]; ok {
		e.Memory = v
	}
	if v, ok := last[memory.CategoryContext]; ok {
		e.Context = v
	}
	if v, ok := last[memory.CategoryIntent]; ok {
		e.Intent = v
	}
	return e
}
