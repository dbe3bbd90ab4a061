// Package briefing renders the context payload injected at session start.
package briefing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/memory"
	"github.com/mci-memory/mci/internal/recovery"
	"github.com/mci-memory/mci/internal/session"
	"github.com/mci-memory/mci/internal/store"
	"github.com/mci-memory/mci/internal/transcript"
)

// Project files loaded into the payload when present
const (
	IdentityFile    = "IDENTITY.md"
	PreferencesFile = "PREFERENCES.md"
)

// Briefing holds all the context for a session-start payload
type Briefing struct {
	Now         time.Time
	Activation  *session.Activation
	Recovery    recovery.Recovery
	StateStatus string
	Identity    string
	Preferences string
}

// Generate assembles a briefing for an applied activation
func Generate(a *session.Activation, r recovery.Recovery, projectDir string, cfg *config.Config, now time.Time) *Briefing {
	b := &Briefing{
		Now:         now,
		Activation:  a,
		Recovery:    r,
		StateStatus: StateStatus(a.Session, cfg.Snapshot.StateMinBytes),
	}

	if s, err := loadProjectFile(projectDir, IdentityFile, cfg.Recovery.IdentityMax); err == nil {
		b.Identity = s
	}
	if s, err := loadProjectFile(projectDir, PreferencesFile, cfg.Recovery.PreferencesMax); err == nil {
		b.Preferences = s
	}

	return b
}

// StateStatus describes the living state document: EMPTY when absent,
// TEMPLATE at or below minBytes, else ACTIVE with its size
func StateStatus(sess *store.Session, minBytes int) string {
	size := sess.StateSize()
	switch {
	case size == 0:
		return "EMPTY"
	case size <= int64(minBytes):
		return "TEMPLATE"
	default:
		return fmt.Sprintf("ACTIVE (%d bytes)", size)
	}
}

// Render converts the briefing to Markdown for context injection
func (b *Briefing) Render() string {
	a := b.Activation
	r := b.Recovery
	sess := a.Session
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# MCI Session - %s %s\n\n", b.Now.Format("2006-01-02"), b.Now.Format("15:04:05")))

	sb.WriteString("=== STATUS ===\n")
	sb.WriteString(fmt.Sprintf("[+] SESSION: #%d (%s)", sess.Ordinal, a.State))
	if a.FirstRun {
		sb.WriteString(" (FIRST RUN)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Path: %s\n", sess.Dir))
	sb.WriteString(fmt.Sprintf("state.md: %s\n", b.StateStatus))
	if r.Found {
		sb.WriteString(fmt.Sprintf("MCI: LOADED from %s\n", r.Snapshot.Provenance))
	} else {
		sb.WriteString("MCI: EMPTY - no recovery possible\n")
	}
	if a.PostReset {
		sb.WriteString("Post-Compact: YES - READ state.md NOW\n")
	} else {
		sb.WriteString("Post-Compact: No\n")
	}
	if a.Crashed() {
		sb.WriteString("Crash: YES - previous session did not end cleanly\n")
	} else {
		sb.WriteString("Crash: No\n")
	}

	if a.PostReset {
		sb.WriteString("\n=== POST-COMPACT RECOVERY ===\n")
		sb.WriteString("Context was reset. The state document is intact on disk.\n")
		sb.WriteString(fmt.Sprintf("ACTION: Read %s and resume from the Progress checklist.\n", sess.Path(store.StateFile)))
		sb.WriteString(fmt.Sprintf("Compact info: %s\n", a.Pending))
	} else if a.Crashed() {
		sb.WriteString("\n=== CRASH RECOVERY ===\n")
		sb.WriteString("The previous session did not end cleanly.\n")
		if a.Previous != nil {
			sb.WriteString(fmt.Sprintf("Crashed session: %s\n", a.Previous.Dir))
		} else {
			sb.WriteString("Recovering in place.\n")
		}
		if r.Found {
			sb.WriteString(fmt.Sprintf("Snapshot recovered from: %s\n", r.Snapshot.Provenance))
		} else {
			sb.WriteString("WARNING: no snapshot found. Check state.md and the note files.\n")
		}
	}

	if a.FirstRun {
		sb.WriteString("\n=== FIRST RUN ===\n")
		sb.WriteString(fmt.Sprintf("Created the session store at %s.\n", filepath.Dir(filepath.Dir(sess.Dir))))
		sb.WriteString("Keep state.md current as you work; hooks snapshot it before every context reset.\n")
		sb.WriteString(fmt.Sprintf("Optional: add %s and %s to the project root.\n", IdentityFile, PreferencesFile))
	}

	if b.Identity != "" {
		sb.WriteString("\n=== Identity ===\n")
		sb.WriteString(b.Identity)
		sb.WriteString("\n")
	}
	if b.Preferences != "" {
		sb.WriteString("\n=== Preferences ===\n")
		sb.WriteString(b.Preferences)
		sb.WriteString("\n")
	}

	if r.Found {
		sb.WriteString(fmt.Sprintf("\n=== Snapshot: %s (%s) ===\n", r.Snapshot.Provenance, r.Snapshot.Session.Record().Path))
		sb.WriteString(strings.TrimSpace(r.Snapshot.Raw))
		sb.WriteString("\n")
	}

	if r.NotesLoaded && !r.Notes.Empty() {
		sb.WriteString("\n=== Recent Marker Entries ===\n")
		writeNotes(&sb, memory.CategoryFact, r.Notes.Facts)
		writeNotes(&sb, memory.CategoryContext, r.Notes.Context)
		writeNotes(&sb, memory.CategoryIntent, r.Notes.Intent)
	}

	writeRules(&sb, sess, b.StateStatus)
	return sb.String()
}

func writeNotes(sb *strings.Builder, c memory.Category, notes []memory.Note) {
	if len(notes) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s (last %d):\n", c.Title(), len(notes)))
	for _, n := range notes {
		sb.WriteString(fmt.Sprintf("  - %s %s\n", n.Stamp, n.Text))
	}
}

func loadProjectFile(projectDir, name string, max int) (string, error) {
	content, err := os.ReadFile(filepath.Join(projectDir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(transcript.Truncate(string(content), max)), nil
}
