package types

// Tier is a discrete context-pressure level
type Tier int

const (
	TierNominal Tier = iota
	TierAdvisory
	TierWarning
	TierEmergency
)

func (t Tier) String() string {
	switch t {
	case TierAdvisory:
		return "advisory"
	case TierWarning:
		return "warning"
	case TierEmergency:
		return "emergency"
	default:
		return "nominal"
	}
}
