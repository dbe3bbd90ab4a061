// Package markers extracts categorized annotation lines from agent output.
//
// A marker is a line starting with one of four prefixes:
//
//	[!]  fact           -> facts.md
//	[*]  context shift  -> context.md
//	[>]  next step      -> intent.md
//	[i]  informational  -> memory.md
package markers

import (
	"strings"

	"github.com/mci-memory/mci/internal/memory"
)

// Prefix maps a line prefix to its note category
type Prefix struct {
	Mark     string
	Category memory.Category
}

// Prefixes in display order
var Prefixes = []Prefix{
	{Mark: "[!]", Category: memory.CategoryFact},
	{Mark: "[*]", Category: memory.CategoryContext},
	{Mark: "[>]", Category: memory.CategoryIntent},
	{Mark: "[i]", Category: memory.CategoryInfo},
}

// Mark returns the prefix for a category
func Mark(c memory.Category) string {
	for _, p := range Prefixes {
		if p.Category == c {
			return p.Mark
		}
	}
	return ""
}

// Match reports the category of a marker line and its text with the prefix
// and following whitespace removed
func Match(line string) (memory.Category, string, bool) {
	for _, p := range Prefixes {
		if rest, ok := strings.CutPrefix(line, p.Mark); ok {
			return p.Category, strings.TrimLeft(rest, " \t"), true
		}
	}
	return "", "", false
}

// Extracted holds marker texts per category in source order
type Extracted map[memory.Category][]string

// Count returns the total number of extracted markers
func (e Extracted) Count() int {
	n := 0
	for _, texts := range e {
		n += len(texts)
	}
	return n
}

// Extract collects marker lines from text, at most limit per category.
// limit <= 0 means no cap. Empty marker texts are dropped.
func Extract(text string, limit int) Extracted {
	out := make(Extracted)
	for _, line := range strings.Split(text, "\n") {
		c, body, ok := Match(strings.TrimRight(line, "\r"))
		if !ok {
			continue
		}
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		if limit > 0 && len(out[c]) >= limit {
			continue
		}
		out[c] = append(out[c], body)
	}
	return out
}

// Last returns the most recent marker per recovery category across lines,
// considering only the final window lines that carry a marker
func Last(lines []string, window int) map[memory.Category]string {
	var found []string
	for _, l := range lines {
		if c, _, ok := Match(l); ok && c != memory.CategoryInfo {
			found = append(found, l)
		}
	}
	if window > 0 && len(found) > window {
		found = found[len(found)-window:]
	}

	out := make(map[memory.Category]string)
	for _, l := range found {
		c, body, _ := Match(l)
		if body = strings.TrimSpace(body); body != "" {
			out[c] = body
		}
	}
	return out
}
