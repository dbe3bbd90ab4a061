package transcript

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Record types
const (
	TypeUser      = "user"
	TypeAssistant = "assistant"
	TypeSummary   = "summary"
	TypeSystem    = "system"
)

const subtypeCompactBoundary = "compact_boundary"

// Record is one parsed transcript line
type Record struct {
	Type    string
	Subtype string
	Text    string // text blocks joined by newlines
	Tools   []ToolUse
	End     int64 // absolute offset past this line; 0 when parsed standalone
}

// ToolUse is one tool invocation block
type ToolUse struct {
	Name     string
	FilePath string
}

// ParseLine decodes one JSONL line. ok is false for invalid JSON or records
// without a type.
func ParseLine(line []byte) (Record, bool) {
	if !gjson.ValidBytes(line) {
		return Record{}, false
	}
	doc := gjson.ParseBytes(line)
	typ := doc.Get("type").String()
	if typ == "" {
		return Record{}, false
	}

	rec := Record{Type: typ, Subtype: doc.Get("subtype").String()}

	content := doc.Get("message.content")
	switch {
	case content.Type == gjson.String:
		rec.Text = content.String()
	case content.IsArray():
		var texts []string
		content.ForEach(func(_, block gjson.Result) bool {
			switch block.Get("type").String() {
			case "text":
				if t := block.Get("text").String(); t != "" {
					texts = append(texts, t)
				}
			case "tool_use":
				path := block.Get("input.file_path").String()
				if path == "" {
					path = block.Get("input.notebook_path").String()
				}
				rec.Tools = append(rec.Tools, ToolUse{Name: block.Get("name").String(), FilePath: path})
			}
			return true
		})
		rec.Text = strings.Join(texts, "\n")
	}

	return rec, true
}

// IsResetBoundary reports whether the record marks a context reset
func (r Record) IsResetBoundary() bool {
	return r.Type == TypeSummary || (r.Type == TypeSystem && r.Subtype == subtypeCompactBoundary)
}

// IsPrompt reports whether the record is a user turn with text
func (r Record) IsPrompt() bool {
	return r.Type == TypeUser && strings.TrimSpace(r.Text) != ""
}

// LastAssistantText returns the text of the agent's most recent response:
// every assistant text block between the previous user prompt and the
// trailing one, in order. The prompt being submitted may already be the
// last record.
func LastAssistantText(records []Record) (string, bool) {
	i := len(records) - 1
	for i >= 0 && records[i].IsPrompt() {
		i--
	}
	var parts []string
	for ; i >= 0; i-- {
		r := records[i]
		if r.IsPrompt() {
			break
		}
		if r.Type == TypeAssistant && r.Text != "" {
			parts = append(parts, r.Text)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "\n"), true
}

// ResetOffset returns the absolute end offset of the last reset boundary in
// the window
func (w *Window) ResetOffset() (int64, bool) {
	records := w.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].IsResetBoundary() {
			return records[i].End, true
		}
	}
	return 0, false
}
