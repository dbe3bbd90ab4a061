package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TranscriptBuilder assembles JSONL transcript fixtures
type TranscriptBuilder struct {
	lines []string
}

// NewTranscript returns an empty builder
func NewTranscript() *TranscriptBuilder {
	return &TranscriptBuilder{}
}

// User adds a user turn with plain string content
func (b *TranscriptBuilder) User(text string) *TranscriptBuilder {
	return b.add(map[string]any{
		"type":    "user",
		"message": map[string]any{"role": "user", "content": text},
	})
}

// Assistant adds an assistant turn with one text block per argument
func (b *TranscriptBuilder) Assistant(texts ...string) *TranscriptBuilder {
	blocks := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": t})
	}
	return b.add(map[string]any{
		"type":    "assistant",
		"message": map[string]any{"role": "assistant", "content": blocks},
	})
}

// Tool adds an assistant turn invoking a tool
func (b *TranscriptBuilder) Tool(name string, input map[string]any) *TranscriptBuilder {
	if input == nil {
		input = map[string]any{}
	}
	return b.add(map[string]any{
		"type": "assistant",
		"message": map[string]any{
			"role": "assistant",
			"content": []map[string]any{
				{"type": "tool_use", "id": "toolu_" + name, "name": name, "input": input},
			},
		},
	})
}

// ToolResult adds a user turn carrying only a tool result
func (b *TranscriptBuilder) ToolResult(output string) *TranscriptBuilder {
	return b.add(map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": []map[string]any{{"type": "tool_result", "content": output}},
		},
	})
}

// Summary adds a compaction summary record
func (b *TranscriptBuilder) Summary(text string) *TranscriptBuilder {
	return b.add(map[string]any{"type": "summary", "summary": text})
}

// CompactBoundary adds a system compaction boundary record
func (b *TranscriptBuilder) CompactBoundary() *TranscriptBuilder {
	return b.add(map[string]any{"type": "system", "subtype": "compact_boundary"})
}

// Raw adds a line verbatim
func (b *TranscriptBuilder) Raw(line string) *TranscriptBuilder {
	b.lines = append(b.lines, line)
	return b
}

// String returns the JSONL content
func (b *TranscriptBuilder) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Len returns the number of lines added
func (b *TranscriptBuilder) Len() int {
	return len(b.lines)
}

// Write writes the transcript to dir/name and returns its path
func (b *TranscriptBuilder) Write(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create transcript dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write transcript: %v", err)
	}
	return path
}

func (b *TranscriptBuilder) add(record map[string]any) *TranscriptBuilder {
	data, err := json.Marshal(record)
	if err != nil {
		panic(err)
	}
	b.lines = append(b.lines, string(data))
	return b
}
