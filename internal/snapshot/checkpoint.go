package snapshot

import (
	"context"
	"fmt"

	"github.com/mci-memory/mci/internal/cascade"
	"github.com/mci-memory/mci/internal/memory"
)

// Due reports whether prompt n falls on a checkpoint interval
func Due(n, interval int) bool {
	return interval > 0 && n > 0 && n%interval == 0
}

// Checkpoint writes a periodic entry for prompt n. It always writes: when no
// source has content a placeholder entry records the checkpoint itself.
func (w *Writer) Checkpoint(ctx context.Context, n int) (Outcome, error) {
	stamp := w.Now().Format("15:04")
	placeholder := cascade.Func[memory.Entry]{
		Label: "Checkpoint",
		Fn: func(context.Context) (memory.Entry, bool) {
			return memory.Entry{
				Memory:  fmt.Sprintf("Checkpoint at prompt #%d", n),
				Context: "Session in progress at " + stamp,
				Intent:  "Continue current work.",
			}, true
		},
	}

	mining := w.Mining("Continue from last user message.")
	mining.Lines = w.Options.CheckpointLines

	notes := &CategoryNotes{Source: w.Session, Join: w.Options.CheckpointJoin}

	trigger := fmt.Sprintf("[AUTO #%d]", n)
	return w.Write(ctx, trigger, w.LivingState(), notes, mining, placeholder)
}
