package types

import "time"

// State is the lifecycle state of a session
type State string

const (
	StateNew            State = "NEW"
	StateResumed        State = "RESUMED"
	StateCrashRecovered State = "CRASH_RECOVERED"
	StateEnded          State = "ENDED"
)

// Resumed reports whether the session continues an existing directory
func (s State) Resumed() bool {
	return s == StateResumed || s == StateCrashRecovered
}

// SessionMeta is the identity record written once when a session directory is created
type SessionMeta struct {
	ID        string    `yaml:"id" json:"id"`
	Date      string    `yaml:"date" json:"date"`
	Ordinal   int       `yaml:"ordinal" json:"ordinal"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// SessionSummary is the frontmatter of the terminal summary artifact
type SessionSummary struct {
	Session        string         `yaml:"session" json:"session"`
	Date           string         `yaml:"date" json:"date"`
	StartedAt      string         `yaml:"started_at" json:"started_at"`
	EndedAt        time.Time      `yaml:"ended_at" json:"ended_at"`
	UserMessages   int            `yaml:"user_messages" json:"user_messages"`
	ToolCalls      int            `yaml:"tool_calls" json:"tool_calls"`
	RecordEntries  int            `yaml:"record_entries" json:"record_entries"`
	SnapshotSource string         `yaml:"snapshot_source" json:"snapshot_source"`
	StateDocument  string         `yaml:"state_document" json:"state_document"`
	Tools          map[string]int `yaml:"tools,omitempty" json:"tools,omitempty"`
	Files          []string       `yaml:"files,omitempty" json:"files,omitempty"`
}
