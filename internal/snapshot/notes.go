package snapshot

import (
	"context"
	"fmt"
	"strings"

	"github.com/mci-memory/mci/internal/markers"
	"github.com/mci-memory/mci/internal/memory"
)

// NoteSource resolves a category's note log
type NoteSource interface {
	Notes(c memory.Category) *memory.NoteLog
}

// CategoryNotes assembles an entry from the latest captured notes
type CategoryNotes struct {
	Source NoteSource
	// Join is how many recent notes per category are joined; 1 takes the latest
	Join int
}

func (s *CategoryNotes) Name() string { return "Auto-Assembled from marker files" }

// Attempt succeeds when any recovery category has at least one note
func (s *CategoryNotes) Attempt(ctx context.Context) (memory.Entry, bool) {
	if ctx.Err() != nil {
		return memory.Entry{}, false
	}
	join := s.Join
	if join <= 0 {
		join = 1
	}

	fields := make([]string, len(memory.RecoveryCategories))
	found := false
	for i, c := range memory.RecoveryCategories {
		texts := memory.Texts(s.Source.Notes(c).Recent(join))
		if len(texts) == 0 {
			fields[i] = fmt.Sprintf("No %s markers captured this session", markers.Mark(c))
			continue
		}
		found = true
		fields[i] = strings.Join(texts, " | ")
	}
	if !found {
		return memory.Entry{}, false
	}

	return memory.Entry{Memory: fields[0], Context: fields[1], Intent: fields[2]}, true
}
