package dispatch

import "time"

// Tier grades the elapsed time of a dispatch for display.
type Tier int

const (
	TierNominal Tier = iota
	TierWarning
	TierError
)

const (
	WarningThreshold = 5 * time.Second
	ErrorThreshold   = 20 * time.Second
)

func TierFor(elapsed time.Duration) Tier {
	switch {
	case elapsed >= ErrorThreshold:
		return TierError
	case elapsed >= WarningThreshold:
		return TierWarning
	default:
		return TierNominal
	}
}

func (t Tier) String() string {
	switch t {
	case TierWarning:
		return "warning"
	case TierError:
		return "error"
	default:
		return "nominal"
	}
}
