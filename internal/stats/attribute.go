// Package stats models percentile attributes and their tiered success checks.
package stats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/tococyn/internal/dice"
)

// ErrUninitializedAttribute is returned when a threshold or check is used
// before the attribute has a rating.
var ErrUninitializedAttribute = errors.New("attribute rating not set")

// ErrInvalidRating is returned when a rating cannot be parsed as an integer.
var ErrInvalidRating = errors.New("invalid rating")

// CheckSides is the die used when a check is rolled rather than supplied.
const CheckSides = 100

// Attribute is a rated characteristic with derived hard and extreme thresholds.
// Half and fifth are only ever written by SetRegular.
type Attribute struct {
	Description string
	Code        string

	set     bool
	regular int
	half    int
	fifth   int
}

// NewAttribute creates an attribute with no rating.
func NewAttribute(description, code string) *Attribute {
	return &Attribute{Description: description, Code: code}
}

// NewRatedAttribute creates an attribute and sets its rating.
func NewRatedAttribute(description, code string, rating int) *Attribute {
	a := NewAttribute(description, code)
	a.SetRegular(rating)
	return a
}

// SetRegular replaces the rating and recomputes the hard (half) and extreme
// (fifth) thresholds. Division truncates toward zero.
func (a *Attribute) SetRegular(value int) {
	a.regular, a.half, a.fifth, a.set = value, value/2, value/5, true
}

// IsSet reports whether a rating has been assigned.
func (a *Attribute) IsSet() bool {
	return a.set
}

// Regular returns the rating.
func (a *Attribute) Regular() (int, error) {
	if !a.set {
		return 0, a.uninitialized()
	}
	return a.regular, nil
}

// Half returns the hard threshold.
func (a *Attribute) Half() (int, error) {
	if !a.set {
		return 0, a.uninitialized()
	}
	return a.half, nil
}

// Fifth returns the extreme threshold.
func (a *Attribute) Fifth() (int, error) {
	if !a.set {
		return 0, a.uninitialized()
	}
	return a.fifth, nil
}

// Threshold returns the value a roll must not exceed to succeed at tier.
func (a *Attribute) Threshold(tier Tier) (int, error) {
	if !a.set {
		return 0, a.uninitialized()
	}
	switch tier {
	case TierRegular:
		return a.regular, nil
	case TierHard:
		return a.half, nil
	case TierExtreme:
		return a.fifth, nil
	}
	return 0, fmt.Errorf("no threshold for tier %s", tier)
}

// Check reports whether value succeeds at tier (value <= threshold).
func (a *Attribute) Check(tier Tier, value int) (bool, error) {
	threshold, err := a.Threshold(tier)
	if err != nil {
		return false, err
	}
	return value <= threshold, nil
}

// IsRegular performs a regular check against the rating.
func (a *Attribute) IsRegular(value int) (bool, error) {
	return a.Check(TierRegular, value)
}

// IsHard performs a hard check against half the rating.
func (a *Attribute) IsHard(value int) (bool, error) {
	return a.Check(TierHard, value)
}

// IsExtreme performs an extreme check against a fifth of the rating.
func (a *Attribute) IsExtreme(value int) (bool, error) {
	return a.Check(TierExtreme, value)
}

// Result is the outcome of a rolled check.
type Result struct {
	Tier      Tier
	Value     int
	Threshold int
	Success   bool
}

// Roll draws a single D100 from src and checks it against tier.
// Nothing is drawn if the attribute has no rating.
func (a *Attribute) Roll(src dice.Source, tier Tier) (Result, error) {
	threshold, err := a.Threshold(tier)
	if err != nil {
		return Result{}, err
	}
	value := src.Uniform(CheckSides)
	return Result{
		Tier:      tier,
		Value:     value,
		Threshold: threshold,
		Success:   value <= threshold,
	}, nil
}

// CheckValue checks a value the player rolled themselves against tier.
func (a *Attribute) CheckValue(tier Tier, value int) (Result, error) {
	threshold, err := a.Threshold(tier)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Tier:      tier,
		Value:     value,
		Threshold: threshold,
		Success:   value <= threshold,
	}, nil
}

// RollRegular rolls a regular check.
func (a *Attribute) RollRegular(src dice.Source) (Result, error) {
	return a.Roll(src, TierRegular)
}

// RollHard rolls a hard check.
func (a *Attribute) RollHard(src dice.Source) (Result, error) {
	return a.Roll(src, TierHard)
}

// RollExtreme rolls an extreme check.
func (a *Attribute) RollExtreme(src dice.Source) (Result, error) {
	return a.Roll(src, TierExtreme)
}

// BestTier returns the highest tier value succeeds at, or TierFailure.
// A tier only counts if every lower tier also succeeds.
func (a *Attribute) BestTier(value int) (Tier, error) {
	if !a.set {
		return TierFailure, a.uninitialized()
	}
	switch {
	case value > a.regular:
		return TierFailure, nil
	case value > a.half:
		return TierRegular, nil
	case value > a.fifth:
		return TierHard, nil
	}
	return TierExtreme, nil
}

// Summary formats r as "hard check vs 32: rolled 17 - success (best: hard)".
func (a *Attribute) Summary(r Result) string {
	best, err := a.BestTier(r.Value)
	if err != nil {
		return fmt.Sprintf("%s check: %v", r.Tier, err)
	}
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	return fmt.Sprintf("%s check vs %d: rolled %d - %s (best: %s)", r.Tier, r.Threshold, r.Value, outcome, best)
}

// String formats the attribute as "Strength/STR(R: 65 H: 32 F: 13)".
func (a *Attribute) String() string {
	var b strings.Builder
	b.WriteString(a.Description)
	if a.Code != "" {
		b.WriteString("/" + a.Code)
	}
	if !a.set {
		b.WriteString("(Not yet set)")
	} else {
		fmt.Fprintf(&b, "(R: %d H: %d F: %d)", a.regular, a.half, a.fifth)
	}
	return b.String()
}

func (a *Attribute) uninitialized() error {
	name := a.Code
	if name == "" {
		name = a.Description
	}
	return fmt.Errorf("%w: %s", ErrUninitializedAttribute, name)
}

// ParseRating parses an integer rating.
func ParseRating(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return v, nil
}
