package config

import "time"

// Config represents the full mci configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Snapshot store location and search bounds
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Session continuity heuristics
	Session SessionConfig `yaml:"session" mapstructure:"session"`

	// Snapshot writer limits
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`

	// Marker capture
	Markers MarkersConfig `yaml:"markers" mapstructure:"markers"`

	// Recovery payload bounds
	Recovery RecoveryConfig `yaml:"recovery" mapstructure:"recovery"`

	// Context pressure thresholds (bytes)
	Pressure PressureConfig `yaml:"pressure" mapstructure:"pressure"`

	// Transcript read windows
	Transcript TranscriptConfig `yaml:"transcript" mapstructure:"transcript"`

	Hook    HookConfig    `yaml:"hook" mapstructure:"hook"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the session store
type StoreConfig struct {
	// Dir is the store base, relative to the project directory unless absolute
	Dir          string `yaml:"dir" mapstructure:"dir"`
	LookbackDays int    `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// SessionConfig holds the classifier policy
type SessionConfig struct {
	ResumeWindow time.Duration `yaml:"resume_window" mapstructure:"resume_window"`
	CrashGrace   time.Duration `yaml:"crash_grace" mapstructure:"crash_grace"`
}

// SnapshotConfig configures the snapshot writer
type SnapshotConfig struct {
	StateMinBytes      int `yaml:"state_min_bytes" mapstructure:"state_min_bytes"`
	GoalMax            int `yaml:"goal_max" mapstructure:"goal_max"`
	ProgressMax        int `yaml:"progress_max" mapstructure:"progress_max"`
	FindingsMax        int `yaml:"findings_max" mapstructure:"findings_max"`
	CheckpointInterval int `yaml:"checkpoint_interval" mapstructure:"checkpoint_interval"`
	CheckpointJoin     int `yaml:"checkpoint_join" mapstructure:"checkpoint_join"`
}

// MarkersConfig configures marker extraction
type MarkersConfig struct {
	PerTurnLimit int `yaml:"per_turn_limit" mapstructure:"per_turn_limit"`
}

// RecoveryConfig bounds what the loader feeds back to the agent
type RecoveryConfig struct {
	Facts          int `yaml:"facts" mapstructure:"facts"`
	Context        int `yaml:"context" mapstructure:"context"`
	Intent         int `yaml:"intent" mapstructure:"intent"`
	IdentityMax    int `yaml:"identity_max" mapstructure:"identity_max"`
	PreferencesMax int `yaml:"preferences_max" mapstructure:"preferences_max"`
}

// PressureConfig holds the byte thresholds for each pressure tier
type PressureConfig struct {
	ContextLimit int64 `yaml:"context_limit" mapstructure:"context_limit"`
	Advisory     int64 `yaml:"advisory" mapstructure:"advisory"`
	Warning      int64 `yaml:"warning" mapstructure:"warning"`
	Emergency    int64 `yaml:"emergency" mapstructure:"emergency"`
}

// TranscriptConfig bounds transcript reads
type TranscriptConfig struct {
	CaptureLines    int      `yaml:"capture_lines" mapstructure:"capture_lines"`
	CheckpointLines int      `yaml:"checkpoint_lines" mapstructure:"checkpoint_lines"`
	ResetLines      int      `yaml:"reset_lines" mapstructure:"reset_lines"`
	PressureLines   int      `yaml:"pressure_lines" mapstructure:"pressure_lines"`
	MaxTailBytes    int64    `yaml:"max_tail_bytes" mapstructure:"max_tail_bytes"`
	SummaryMaxBytes int64    `yaml:"summary_max_bytes" mapstructure:"summary_max_bytes"`
	WriteTools      []string `yaml:"write_tools" mapstructure:"write_tools"`
	// SearchRoot is scanned for *.jsonl when the host does not pass a transcript path
	SearchRoot string `yaml:"search_root" mapstructure:"search_root"`
}

// HookConfig configures the activation protocol
type HookConfig struct {
	InputTimeout time.Duration `yaml:"input_timeout" mapstructure:"input_timeout"`
}

// CatalogConfig configures the snapshot search catalog
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures the activation log
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}
