package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// Stats are usage signals mined from transcript records
type Stats struct {
	UserTurns int
	ToolCalls int
	Tools     map[string]int
	Files     []string // distinct paths touched by write-type tools, first-seen order
	Prompts   []string // user prompt texts, whitespace-collapsed
}

// ToolCount is one histogram bucket
type ToolCount struct {
	Name  string
	Count int
}

// Collect tallies tool use, written files, and user prompts
func Collect(records []Record, writeTools []string) Stats {
	writes := make(map[string]bool, len(writeTools))
	for _, name := range writeTools {
		writes[name] = true
	}

	st := Stats{Tools: make(map[string]int)}
	seen := make(map[string]bool)

	for _, r := range records {
		switch r.Type {
		case TypeUser:
			if r.IsPrompt() {
				st.UserTurns++
				st.Prompts = append(st.Prompts, strings.Join(strings.Fields(r.Text), " "))
			}
		case TypeAssistant:
			for _, tu := range r.Tools {
				if tu.Name == "" {
					continue
				}
				st.ToolCalls++
				st.Tools[tu.Name]++
				if writes[tu.Name] && tu.FilePath != "" && !seen[tu.FilePath] {
					seen[tu.FilePath] = true
					st.Files = append(st.Files, tu.FilePath)
				}
			}
		}
	}
	return st
}

// TopTools returns the n most used tools, ties broken by name
func (s Stats) TopTools(n int) []ToolCount {
	counts := make([]ToolCount, 0, len(s.Tools))
	for name, c := range s.Tools {
		counts = append(counts, ToolCount{Name: name, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// ToolSummary renders the top n tools as "3 Edit, 2 Read"
func (s Stats) ToolSummary(n int) string {
	top := s.TopTools(n)
	parts := make([]string, 0, len(top))
	for _, tc := range top {
		parts = append(parts, fmt.Sprintf("%d %s", tc.Count, tc.Name))
	}
	return strings.Join(parts, ", ")
}

// FileSummary joins the first n files
func (s Stats) FileSummary(n int) string {
	files := s.Files
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	return strings.Join(files, ", ")
}

// RecentPrompts joins the last n prompts with " | ". Each prompt is cut to
// each runes and the result to total runes.
func (s Stats) RecentPrompts(n, each, total int) string {
	prompts := s.Prompts
	if n > 0 && len(prompts) > n {
		prompts = prompts[len(prompts)-n:]
	}
	parts := make([]string, 0, len(prompts))
	for _, p := range prompts {
		parts = append(parts, Truncate(p, each))
	}
	return Truncate(strings.Join(parts, " | "), total)
}

// Truncate cuts s to at most n runes; n <= 0 leaves s unchanged
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
