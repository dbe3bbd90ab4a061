package hook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
)

// Handler does the work of one activation
type Handler func(ctx context.Context, in Input) (Output, error)

// Run invokes h and always writes exactly one output object. Errors and
// panics are logged and turned into the no-op output.
func Run(ctx context.Context, in Input, w io.Writer, logger *slog.Logger, h Handler) {
	if logger == nil {
		logger = slog.Default()
	}
	out := safeCall(ctx, in, logger, h)
	if err := out.Write(w); err != nil {
		logger.Error("failed to write hook output", "error", err)
	}
}

func safeCall(ctx context.Context, in Input, logger *slog.Logger, h Handler) (out Output) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("hook panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			out = Suppress()
		}
	}()

	out, err := h(ctx, in)
	if err != nil {
		logger.Warn("hook failed", "error", err)
		return Suppress()
	}
	if out.HookSpecificOutput == nil && !out.SuppressOutput {
		return Suppress()
	}
	return out
}
