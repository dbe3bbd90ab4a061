package briefing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mci-memory/mci/internal/markers"
	"github.com/mci-memory/mci/internal/store"
)

var markerMeaning = map[string]string{
	"[!]": "Critical fact",
	"[*]": "Context shift",
	"[>]": "Next step",
	"[i]": "Info note",
}

func writeRules(sb *strings.Builder, sess *store.Session, stateStatus string) {
	sb.WriteString("\n=== MEMORY SYSTEM ===\n")
	sb.WriteString(fmt.Sprintf("state.md: %s (%s)\n", sess.Path(store.StateFile), stateStatus))
	sb.WriteString("Keep the Goal, Progress and Findings sections current with the Edit tool.\n")
	sb.WriteString("It is snapshotted into the record before every context reset and at session end.\n\n")

	sb.WriteString("| Marker | Meaning | Captured to |\n")
	sb.WriteString("|--------|---------|-------------|\n")
	for _, p := range markers.Prefixes {
		file := filepath.Base(sess.Notes(p.Category).Path)
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", p.Mark, markerMeaning[p.Mark], file))
	}

	sb.WriteString(fmt.Sprintf("\nRecord: %s\n", sess.Record().Path))
	sb.WriteString("After a reset, read state.md first. Do not ask the user what you were doing.\n")
}
