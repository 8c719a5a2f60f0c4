package investigator

import (
	"fmt"
	"strings"
)

// Gender selects how an investigator is referred to in descriptions.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	X      Gender = "x"
)

// pronouns holds the fixed words used for one gender
type pronouns struct {
	person     string
	possessive string
	object     string
	personal   string
}

var pronounTable = map[Gender]pronouns{
	Male:   {person: "man", possessive: "his", object: "him", personal: "he"},
	Female: {person: "woman", possessive: "her", object: "her", personal: "she"},
	X:      {person: "X", possessive: "theirs", object: "them", personal: "they"},
}

// ParseGender parses a gender, case-insensitive
func ParseGender(s string) (Gender, error) {
	normalized := Gender(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case "m", "man":
		normalized = Male
	case "f", "woman":
		normalized = Female
	}
	if _, ok := pronounTable[normalized]; ok {
		return normalized, nil
	}
	return "", fmt.Errorf("unknown gender: %s", s)
}

// IsValid returns true if the gender has a pronoun entry
func (g Gender) IsValid() bool {
	_, ok := pronounTable[g]
	return ok
}

// Person returns "man", "woman" or "X".
func (g Gender) Person() string { return g.lookup().person }

// Possessive returns "his", "her" or "theirs".
func (g Gender) Possessive() string { return g.lookup().possessive }

// Object returns "him", "her" or "them".
func (g Gender) Object() string { return g.lookup().object }

// Personal returns "he", "she" or "they".
func (g Gender) Personal() string { return g.lookup().personal }

func (g Gender) lookup() pronouns {
	if p, ok := pronounTable[g]; ok {
		return p
	}
	return pronounTable[X]
}
