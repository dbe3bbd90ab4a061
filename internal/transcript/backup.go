package transcript

import (
	"fmt"
	"strings"
)

// BackupOptions bounds a pre-reset conversation backup
type BackupOptions struct {
	Turns       int // most recent turns kept
	TurnChars   int // per text block
	TotalChars  int // conversation body
	RecordValid bool
	Stamp       string
}

// DefaultBackupOptions mirrors the limits used before compaction
func DefaultBackupOptions() BackupOptions {
	return BackupOptions{Turns: 20, TurnChars: 500, TotalChars: 6000}
}

// RenderBackup renders the recent conversation as Markdown
func RenderBackup(records []Record, opts BackupOptions) string {
	var turns []string
	prompts := 0

	for _, r := range records {
		switch r.Type {
		case TypeUser:
			if !r.IsPrompt() {
				continue
			}
			prompts++
			turns = append(turns, "## USER:\n"+Truncate(r.Text, opts.TurnChars))
		case TypeAssistant:
			var parts []string
			if r.Text != "" {
				parts = append(parts, Truncate(r.Text, opts.TurnChars))
			}
			for _, tu := range r.Tools {
				parts = append(parts, fmt.Sprintf("[tool: %s]", tu.Name))
			}
			if len(parts) > 0 {
				turns = append(turns, "## AGENT:\n"+strings.Join(parts, "\n"))
			}
		}
	}

	if opts.Turns > 0 && len(turns) > opts.Turns {
		turns = turns[len(turns)-opts.Turns:]
	}

	status := "AUTO-GENERATED"
	if opts.RecordValid {
		status = "VALID"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Pre-Compact Backup - %s\n", opts.Stamp)
	fmt.Fprintf(&b, "## MCI Status: %s\n", status)
	fmt.Fprintf(&b, "## Messages: ~%d\n\n", prompts)
	b.WriteString("## Recent Conversation\n")
	b.WriteString(Truncate(strings.Join(turns, "\n\n"), opts.TotalChars))
	b.WriteString("\n")
	return b.String()
}
