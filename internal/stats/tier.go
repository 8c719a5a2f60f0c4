package stats

import (
	"fmt"
	"strings"
)

// Tier is a level of success for a percentile check.
type Tier int

const (
	TierFailure Tier = iota
	TierRegular
	TierHard
	TierExtreme
)

// String returns the lowercase name of the tier
func (t Tier) String() string {
	switch t {
	case TierFailure:
		return "failure"
	case TierRegular:
		return "regular"
	case TierHard:
		return "hard"
	case TierExtreme:
		return "extreme"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier parses a check tier name, case-insensitive.
// Only the three checkable tiers are accepted.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular", "r":
		return TierRegular, nil
	case "hard", "h":
		return TierHard, nil
	case "extreme", "e":
		return TierExtreme, nil
	}
	return TierFailure, fmt.Errorf("unknown tier: %s", s)
}
