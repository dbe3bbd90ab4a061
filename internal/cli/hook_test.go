package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mci-memory/mci/internal/hook"
	"github.com/mci-memory/mci/internal/testutil"
)

func decodeOutput(t *testing.T, data []byte) hook.Output {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "exactly one output object")
	var out hook.Output
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &out))
	return out
}

func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRunHookHandlerConstructionPanics(t *testing.T) {
	te := testutil.SetupTestEnv(t)
	keepDefaultLogger(t)

	var stdout bytes.Buffer
	runHook(context.Background(), strings.NewReader(`{}`), &stdout, te.ProjectDir, hook.EventStop,
		func(*Env) hook.Handler { panic("broken env") })

	out := decodeOutput(t, stdout.Bytes())
	assert.True(t, out.SuppressOutput)
}

func TestRunHookWritesHandlerOutput(t *testing.T) {
	te := testutil.SetupTestEnv(t)
	keepDefaultLogger(t)

	var seen string
	var stdout bytes.Buffer
	runHook(context.Background(), strings.NewReader(`{"session_id":"abc"}`), &stdout, te.ProjectDir, hook.EventPrompt,
		func(e *Env) hook.Handler {
			seen = e.ProjectDir
			return func(ctx context.Context, in hook.Input) (hook.Output, error) {
				return hook.Context(hook.EventPrompt, "hello"), nil
			}
		})

	assert.Equal(t, te.ProjectDir, seen)
	out := decodeOutput(t, stdout.Bytes())
	require.NotNil(t, out.HookSpecificOutput)
	assert.Equal(t, "hello", out.HookSpecificOutput.AdditionalContext)
}
