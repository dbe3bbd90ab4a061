package hook

import (
	"encoding/json"
	"io"
)

// Output is the single JSON object written to stdout
type Output struct {
	HookSpecificOutput *Specific `json:"hookSpecificOutput,omitempty"`
	SuppressOutput     bool      `json:"suppressOutput,omitempty"`
}

// Specific carries context injected into the agent's next turn
type Specific struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Suppress is the no-op output
func Suppress() Output {
	return Output{SuppressOutput: true}
}

// Context injects text for event; empty text degrades to Suppress
func Context(event, text string) Output {
	if text == "" {
		return Suppress()
	}
	return Output{HookSpecificOutput: &Specific{HookEventName: event, AdditionalContext: text}}
}

// Write encodes o as one line of JSON
func (o Output) Write(w io.Writer) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
