// Package pressure estimates how much of the agent's working context is used.
//
// The estimate is approximate: it counts transcript bytes written since the
// last reset boundary and compares them with byte thresholds. Bytes are not
// tokens, so the tiers are a heuristic early warning, not a measurement.
package pressure

import (
	"fmt"

	"github.com/mci-memory/mci/internal/config"
	"github.com/mci-memory/mci/internal/transcript"
	"github.com/mci-memory/mci/pkg/types"
)

// Thresholds are inclusive lower bounds for each tier, in bytes
type Thresholds struct {
	ContextLimit int64
	Advisory     int64
	Warning      int64
	Emergency    int64
}

// ThresholdsFromConfig extracts the tier thresholds
func ThresholdsFromConfig(cfg *config.Config) Thresholds {
	return Thresholds{
		ContextLimit: cfg.Pressure.ContextLimit,
		Advisory:     cfg.Pressure.Advisory,
		Warning:      cfg.Pressure.Warning,
		Emergency:    cfg.Pressure.Emergency,
	}
}

// Classify maps an effective size to its tier
func Classify(effective int64, th Thresholds) types.Tier {
	switch {
	case effective >= th.Emergency:
		return types.TierEmergency
	case effective >= th.Warning:
		return types.TierWarning
	case effective >= th.Advisory:
		return types.TierAdvisory
	default:
		return types.TierNominal
	}
}

// Remaining returns the estimated percentage of context left
func Remaining(effective, limit int64) int {
	if limit <= 0 {
		return 0
	}
	used := effective * 100 / limit
	if used > 100 {
		used = 100
	}
	if used < 0 {
		used = 0
	}
	return 100 - int(used)
}

// Estimate is one pressure measurement
type Estimate struct {
	Total     int64 // transcript size
	Offset    int64 // end of the last reset boundary, 0 if none
	Effective int64
	Tier      types.Tier
	Remaining int
}

// Measure reads the transcript tail and estimates pressure. The reset
// boundary is searched for only within the last lines lines.
func Measure(path string, lines int, maxBytes int64, th Thresholds) (Estimate, error) {
	w, err := transcript.Tail(path, lines, maxBytes)
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{Total: w.Size, Effective: w.Size}
	if off, ok := w.ResetOffset(); ok {
		est.Offset = off
		est.Effective = w.Size - off
	}
	est.Tier = Classify(est.Effective, th)
	est.Remaining = Remaining(est.Effective, th.ContextLimit)
	return est, nil
}

// Advisory returns the message for the estimate's tier, empty when nominal.
// Warning and emergency name the record to write and its entry count.
func Advisory(e Estimate, recordPath string, entries int) string {
	switch e.Tier {
	case types.TierEmergency:
		return fmt.Sprintf("[PC] EMERGENCY: ~%d%% context remaining (estimate). Auto-compact imminent. Update state.md and write a [PC] entry to %s NOW. (.mci entries: %d)",
			e.Remaining, recordPath, entries)
	case types.TierWarning:
		return fmt.Sprintf("[PC] WARNING: ~%d%% context remaining (estimate). Snapshot now: save a [PC] entry to %s with Memory/Context/Intent. (.mci entries: %d)",
			e.Remaining, recordPath, entries)
	case types.TierAdvisory:
		return fmt.Sprintf("[i] Context checkpoint: ~%d%% remaining (estimate). Consider saving progress to state.md and .mci.", e.Remaining)
	default:
		return ""
	}
}
