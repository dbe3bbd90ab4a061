package config

import (
	"os"
	"time"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Store: StoreConfig{
			Dir:          ".claude-memory",
			LookbackDays: 7,
		},
		Session: SessionConfig{
			ResumeWindow: 4 * time.Hour,
			CrashGrace:   60 * time.Second,
		},
		Snapshot: SnapshotConfig{
			StateMinBytes:      200,
			GoalMax:            1500,
			ProgressMax:        2000,
			FindingsMax:        2000,
			CheckpointInterval: 10,
			CheckpointJoin:     3,
		},
		Markers: MarkersConfig{
			PerTurnLimit: 5,
		},
		Recovery: RecoveryConfig{
			Facts:          5,
			Context:        3,
			Intent:         3,
			IdentityMax:    1000,
			PreferencesMax: 800,
		},
		Pressure: PressureConfig{
			ContextLimit: 1000000,
			Advisory:     700000,
			Warning:      850000,
			Emergency:    950000,
		},
		Transcript: TranscriptConfig{
			CaptureLines:    50,
			CheckpointLines: 200,
			ResetLines:      500,
			PressureLines:   2000,
			MaxTailBytes:    8 << 20,
			SummaryMaxBytes: 64 << 20,
			WriteTools:      []string{"Write", "Edit", "MultiEdit", "NotebookEdit"},
			SearchRoot:      "~/.claude/projects",
		},
		Hook: HookConfig{
			InputTimeout: time.Second,
		},
		Catalog: CatalogConfig{
			Enabled: true,
			Path:    "catalog.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "logs/mci.log",
		},
	}
}

// WriteDefault writes a commented configuration template to a file
func WriteDefault(path string) error {
	content := `# mci configuration
version: "1"

# Snapshot store (relative to the project directory)
store:
  dir: .claude-memory
  # Day partitions searched for a snapshot before giving up
  lookback_days: 7

# Session continuity
session:
  # Activity within this window resumes the last session of the day
  resume_window: 4h
  # A resumed session idle longer than this without a clean end counts as a crash
  crash_grace: 60s

snapshot:
  # state.md larger than this is considered edited (not the template)
  state_min_bytes: 200
  goal_max: 1500
  progress_max: 2000
  findings_max: 2000
  # Automatic checkpoint every N prompts (0 disables)
  checkpoint_interval: 10
  checkpoint_join: 3

markers:
  per_turn_limit: 5

recovery:
  facts: 5
  context: 3
  intent: 3

# Context pressure thresholds in transcript bytes (approximate)
pressure:
  context_limit: 1000000
  advisory: 700000
  warning: 850000
  emergency: 950000

transcript:
  capture_lines: 50
  checkpoint_lines: 200
  reset_lines: 500
  pressure_lines: 2000
  write_tools: [Write, Edit, MultiEdit, NotebookEdit]
  search_root: ~/.claude/projects

hook:
  input_timeout: 1s

catalog:
  enabled: true
  path: catalog.db

log:
  level: info
  file: logs/mci.log
`
	return os.WriteFile(path, []byte(content), 0644)
}
