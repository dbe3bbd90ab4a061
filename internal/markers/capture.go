package markers

import (
	"errors"

	"github.com/mci-memory/mci/internal/memory"
)

// NoteSink resolves the note log for a category
type NoteSink interface {
	Notes(c memory.Category) *memory.NoteLog
}

// Capture appends extracted markers to their category logs, stamped with
// stamp. It returns the number of notes written; per-category failures are
// joined and do not stop other categories.
func Capture(sink NoteSink, ex Extracted, stamp string) (int, error) {
	written := 0
	var errs []error
	for _, p := range Prefixes {
		texts := ex[p.Category]
		if len(texts) == 0 {
			continue
		}
		notes := make([]memory.Note, 0, len(texts))
		for _, t := range texts {
			notes = append(notes, memory.Note{Stamp: stamp, Text: t})
		}
		if err := sink.Notes(p.Category).Append(notes...); err != nil {
			errs = append(errs, err)
			continue
		}
		written += len(notes)
	}
	return written, errors.Join(errs...)
}
