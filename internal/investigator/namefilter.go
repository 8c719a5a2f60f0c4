package investigator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNameNotAllowed is returned when a name matches the filter.
var ErrNameNotAllowed = errors.New("name not allowed")

// NameFilterConfig holds the name filter configuration
type NameFilterConfig struct {
	Enabled     bool     `yaml:"enabled"`
	BannedWords []string `yaml:"banned_words"`
	BannedNames []string `yaml:"banned_names"`
}

// NameFilter rejects investigator names against banned words and names
type NameFilter struct {
	enabled     bool
	bannedWords []string // Lowercase banned words (partial match)
	bannedNames []string // Lowercase banned names (exact match)
}

// NewNameFilter creates a NameFilter from a config
func NewNameFilter(cfg NameFilterConfig) *NameFilter {
	nf := &NameFilter{
		enabled:     cfg.Enabled,
		bannedWords: make([]string, 0, len(cfg.BannedWords)),
		bannedNames: make([]string, 0, len(cfg.BannedNames)),
	}

	for _, word := range cfg.BannedWords {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			nf.bannedWords = append(nf.bannedWords, word)
		}
	}
	for _, name := range cfg.BannedNames {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			nf.bannedNames = append(nf.bannedNames, name)
		}
	}

	return nf
}

// Check validates a single name against the filter rules
func (nf *NameFilter) Check(name string) error {
	if nf == nil || !nf.enabled {
		return nil
	}

	nameLower := strings.ToLower(strings.TrimSpace(name))

	for _, banned := range nf.bannedNames {
		if nameLower == banned {
			return fmt.Errorf("%w: %q", ErrNameNotAllowed, name)
		}
	}
	for _, word := range nf.bannedWords {
		if strings.Contains(nameLower, word) {
			return fmt.Errorf("%w: %q contains a banned word", ErrNameNotAllowed, name)
		}
	}
	return nil
}

// CheckInvestigator checks the first name, the surname and the full name.
func (nf *NameFilter) CheckInvestigator(inv *Investigator) error {
	for _, name := range []string{inv.FirstName, inv.Surname, inv.FullName()} {
		if err := nf.Check(name); err != nil {
			return err
		}
	}
	return nil
}

// IsEnabled returns whether the filter is enabled
func (nf *NameFilter) IsEnabled() bool {
	return nf != nil && nf.enabled
}
