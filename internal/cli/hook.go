package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/hook"
	"github.com/mci-memory/mci/internal/logging"
)

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Hook entry points for the agent runtime",
		Args:  cobra.NoArgs,
	}

	// Called by the runtime, not by people
	for _, sub := range []struct {
		use     string
		short   string
		handler func(*Env) hook.Handler
	}{
		{"session-start", "Classify the session and inject recovered state", func(e *Env) hook.Handler { return e.SessionStart }},
		{"prompt-capture", "Capture markers, checkpoint, and estimate context pressure", func(e *Env) hook.Handler { return e.PromptCapture }},
		{"pre-compact", "Snapshot state before a context reset", func(e *Env) hook.Handler { return e.PreCompact }},
		{"session-stop", "Finalize the current session", func(e *Env) hook.Handler { return e.SessionStop }},
	} {
		sub := sub
		c := &cobra.Command{
			Use:    sub.use,
			Short:  sub.short,
			Args:   cobra.NoArgs,
			Hidden: true,
			Run: func(cmd *cobra.Command, args []string) {
				runHook(cmd.Context(), os.Stdin, os.Stdout, projectFlag, sub.use, sub.handler)
			},
		}
		cmd.AddCommand(c)
	}
	return cmd
}

// runHook never fails: whatever happens, one JSON object goes to stdout
func runHook(ctx context.Context, stdin io.Reader, stdout io.Writer, project, event string, handler func(*Env) hook.Handler) {
	if ctx == nil {
		ctx = context.Background()
	}
	written := false
	defer func() {
		if r := recover(); r != nil {
			slog.Error("hook setup panicked", "event", event, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			if !written {
				_ = hook.Suppress().Write(stdout)
			}
		}
	}()

	// The payload names the project, but the read timeout comes from config
	timeout := config.DefaultConfig().Hook.InputTimeout
	if pre, err := loadEnv(project); err == nil {
		timeout = pre.Config.Hook.InputTimeout
	}
	in := hook.ReadInput(stdin, timeout)

	dir := project
	if dir == "" {
		dir = in.ProjectDir()
	}
	env, err := loadEnv(dir)
	if env == nil {
		env = NewEnv(dir, config.DefaultConfig())
	}

	logger, logErr := logging.Setup(env.Config.Log, env.Store.Base)
	defer logger.Close()
	env.Logger = logger.Event(event)
	if err != nil {
		env.Logger.Warn("config load failed, using defaults", "error", err)
	}
	if logErr != nil {
		env.Logger.Debug("file logging unavailable", "error", logErr)
	}

	h := handler(env)
	written = true
	hook.Run(ctx, in, stdout, env.Logger, h)
}
