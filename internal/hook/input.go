// Package hook implements the activation protocol: a JSON object on stdin,
// exactly one JSON object on stdout, and exit status zero no matter what.
package hook

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/term"
)

// maxInputBytes caps stdin reads; activation payloads are small
const maxInputBytes = 1 << 20

// Event names reported back to the host runtime
const (
	EventSessionStart = "SessionStart"
	EventPrompt       = "UserPromptSubmit"
	EventPreCompact   = "PreCompact"
	EventStop         = "Stop"
)

var transcriptPaths = []string{"transcript_path", "transcriptPath", "hookInput.transcriptPath"}

// Input is the activation payload, reduced to what handlers use
type Input struct {
	TranscriptPath string
	CWD            string
	SessionID      string
	Event          string
	Raw            []byte
}

// ReadInput reads the payload from r, giving up after timeout. A terminal on
// stdin means there is no payload, so it returns immediately.
func ReadInput(r io.Reader, timeout time.Duration) Input {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return Input{}
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, maxInputBytes))
		done <- result{data, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			slog.Warn("hook input read failed", "error", res.err)
			return Input{}
		}
		return ParseInput(res.data)
	case <-timer.C:
		slog.Debug("hook input timed out", "timeout", timeout)
		return Input{}
	}
}

// ParseInput extracts known fields from a raw payload. Invalid JSON yields an
// empty input with Raw preserved.
func ParseInput(data []byte) Input {
	in := Input{Raw: data}
	if !gjson.ValidBytes(data) {
		if len(data) > 0 {
			slog.Warn("hook input is not valid JSON", "bytes", len(data))
		}
		return in
	}

	doc := gjson.ParseBytes(data)
	for _, p := range transcriptPaths {
		if v := doc.Get(p).String(); v != "" {
			in.TranscriptPath = v
			break
		}
	}
	in.CWD = doc.Get("cwd").String()
	in.SessionID = doc.Get("session_id").String()
	in.Event = doc.Get("hook_event_name").String()
	return in
}

// ProjectDir resolves the project root: payload cwd, then
// $CLAUDE_PROJECT_DIR, then the working directory
func (in Input) ProjectDir() string {
	if in.CWD != "" {
		return in.CWD
	}
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	dir, _ := os.Getwd()
	return dir
}
