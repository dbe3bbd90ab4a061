package snapshot

import "github.com/mci-memory/mci/internal/config"

// Options bounds the snapshot sources
type Options struct {
	StateMinBytes   int
	GoalMax         int
	ProgressMax     int
	FindingsMax     int
	CheckpointJoin  int
	ResetLines      int
	CheckpointLines int
	MaxTailBytes    int64
	WriteTools      []string
}

// OptionsFromConfig extracts snapshot options from the loaded config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		StateMinBytes:   cfg.Snapshot.StateMinBytes,
		GoalMax:         cfg.Snapshot.GoalMax,
		ProgressMax:     cfg.Snapshot.ProgressMax,
		FindingsMax:     cfg.Snapshot.FindingsMax,
		CheckpointJoin:  cfg.Snapshot.CheckpointJoin,
		ResetLines:      cfg.Transcript.ResetLines,
		CheckpointLines: cfg.Transcript.CheckpointLines,
		MaxTailBytes:    cfg.Transcript.MaxTailBytes,
		WriteTools:      cfg.Transcript.WriteTools,
	}
}
