package finalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mci-memory/mci/pkg/types"
)

const (
	summaryTools    = 15
	summaryFiles    = 20
	summaryMaxChars = 8000
)

// RenderSummary formats the terminal summary as YAML frontmatter followed by
// a Markdown body, cut to a fixed size
func RenderSummary(s *types.SessionSummary, now time.Time) string {
	frontmatter, _ := yaml.Marshal(s)

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(frontmatter)
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# Session Summary - %s %s\n\n", now.Format("2006-01-02"), now.Format("15:04:05")))

	sb.WriteString("## Duration\n")
	sb.WriteString(fmt.Sprintf("- Started: %s\n", s.StartedAt))
	sb.WriteString(fmt.Sprintf("- Ended: %s\n\n", s.EndedAt.Format("15:04:05")))

	sb.WriteString("## Memory Status\n")
	sb.WriteString(fmt.Sprintf("- state.md: %s\n", s.StateDocument))
	sb.WriteString(fmt.Sprintf("- MCI saved by: %s\n", s.SnapshotSource))
	sb.WriteString(fmt.Sprintf("- MCI entries: %d\n\n", s.RecordEntries))

	sb.WriteString("## Stats\n")
	sb.WriteString(fmt.Sprintf("- User messages: ~%d\n", s.UserMessages))
	sb.WriteString(fmt.Sprintf("- Tool calls: %d\n\n", s.ToolCalls))

	if len(s.Tools) > 0 {
		sb.WriteString("## Tools Used\n")
		for _, name := range sortedTools(s.Tools) {
			sb.WriteString(fmt.Sprintf("  %6d %s\n", s.Tools[name], name))
		}
		sb.WriteString("\n")
	}

	if len(s.Files) > 0 {
		sb.WriteString("## Files Modified\n")
		for _, f := range s.Files {
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}

	out := sb.String()
	if len(out) > summaryMaxChars {
		out = out[:summaryMaxChars]
	}
	return out
}

func sortedTools(tools map[string]int) []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if tools[names[i]] != tools[names[j]] {
			return tools[names[i]] > tools[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
