package investigator

import (
	"fmt"
	"strings"
)

// Era is the setting period an investigator belongs to.
type Era int

const (
	NineteenTwenties Era = iota + 1
	Modern
	Pulp
)

// String returns the display name of the era
func (e Era) String() string {
	switch e {
	case NineteenTwenties:
		return "1920s"
	case Modern:
		return "Modern"
	case Pulp:
		return "Pulp"
	default:
		return "Unknown"
	}
}

// ParseEra parses an era name, case-insensitive
func ParseEra(s string) (Era, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1920s", "1920", "twenties", "classic":
		return NineteenTwenties, nil
	case "modern":
		return Modern, nil
	case "pulp":
		return Pulp, nil
	}
	return 0, fmt.Errorf("unknown era: %s", s)
}
