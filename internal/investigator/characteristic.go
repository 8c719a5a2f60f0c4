package investigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/logger"
	"github.com/lawnchairsociety/tococyn/internal/stats"
)

// Characteristic codes
const (
	STR = "STR"
	CON = "CON"
	DEX = "DEX"
	SIZ = "SIZ"
	APP = "APP"
	INT = "INT"
	POW = "POW"
	EDU = "EDU"
)

// DefaultMultiplier scales a raw dice sum onto the percentile rating scale.
const DefaultMultiplier = 5

// ErrUnknownCharacteristic is returned for a code that is not in the table.
var ErrUnknownCharacteristic = errors.New("unknown characteristic")

// Characteristic describes how one characteristic is generated.
type Characteristic struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Notation    string `yaml:"notation"`
}

// DefaultCharacteristics returns the standard generation table in display order.
func DefaultCharacteristics() []Characteristic {
	return []Characteristic{
		{Code: STR, Description: "Strength", Notation: "3D6"},
		{Code: CON, Description: "Constitution", Notation: "3D6"},
		{Code: SIZ, Description: "Size", Notation: "2D6+6"},
		{Code: DEX, Description: "Dexterity", Notation: "3D6"},
		{Code: APP, Description: "Appearance", Notation: "3D6"},
		{Code: INT, Description: "Intelligence", Notation: "2D6+6"},
		{Code: POW, Description: "Power", Notation: "3D6"},
		{Code: EDU, Description: "Education", Notation: "2D6+6"},
	}
}

// NormalizeCode upper-cases and trims a characteristic code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Roller assigns characteristic ratings to investigators.
type Roller struct {
	Source     dice.Source
	Table      []Characteristic
	Multiplier int
}

// NewRoller returns a Roller using the default table and multiplier.
func NewRoller(src dice.Source) *Roller {
	return &Roller{
		Source:     src,
		Table:      DefaultCharacteristics(),
		Multiplier: DefaultMultiplier,
	}
}

// SetCharacteristics rates every characteristic in the table. The raw value
// is taken from overrides when present, otherwise rolled, and is stored
// multiplied by the roller's multiplier. Nothing is assigned if the table or
// the overrides are invalid.
func (r *Roller) SetCharacteristics(inv *Investigator, overrides map[string]int) error {
	exprs := make([]dice.Expression, len(r.Table))
	known := make(map[string]bool, len(r.Table))
	for i, c := range r.Table {
		expr, err := dice.Parse(c.Notation)
		if err != nil {
			return fmt.Errorf("characteristic %s: %w", c.Code, err)
		}
		exprs[i] = expr
		known[NormalizeCode(c.Code)] = true
	}

	normalized := make(map[string]int, len(overrides))
	for code, raw := range overrides {
		code = NormalizeCode(code)
		if !known[code] {
			return fmt.Errorf("%w: %s", ErrUnknownCharacteristic, code)
		}
		normalized[code] = raw
	}

	multiplier := r.Multiplier
	if multiplier == 0 {
		multiplier = DefaultMultiplier
	}

	for i, c := range r.Table {
		code := NormalizeCode(c.Code)
		raw, ok := normalized[code]
		if !ok {
			raw = exprs[i].Roll(r.Source)
		}
		rating := raw * multiplier

		attr := inv.Characteristic(code)
		if attr == nil {
			attr = stats.NewAttribute(c.Description, code)
			inv.addCharacteristic(attr)
		}
		attr.SetRegular(rating)

		logger.Debug("Characteristic rated",
			"investigator", inv.FullName(),
			"code", code,
			"notation", exprs[i].String(),
			"raw", raw,
			"rolled", !ok,
			"rating", rating)
	}

	return nil
}
