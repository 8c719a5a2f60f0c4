// Package investigator holds the character record that owns rated characteristics.
package investigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/tococyn/internal/stats"
)

// ErrInvalidInvestigator is returned when required record fields are missing.
var ErrInvalidInvestigator = errors.New("invalid investigator")

// Investigator is a player character. It exclusively owns its characteristics.
type Investigator struct {
	ID         int64
	FirstName  string
	Surname    string
	Gender     Gender
	Era        Era
	Occupation string
	Birthplace string
	Residence  string
	Age        int

	characteristics []*stats.Attribute
}

// New creates an investigator with every default characteristic unrated.
func New(firstName, surname string, gender Gender, age int) (*Investigator, error) {
	firstName = strings.TrimSpace(firstName)
	surname = strings.TrimSpace(surname)
	if firstName == "" || surname == "" {
		return nil, fmt.Errorf("%w: first name and surname are required", ErrInvalidInvestigator)
	}
	if !gender.IsValid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidInvestigator, gender)
	}
	if age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive, got %d", ErrInvalidInvestigator, age)
	}

	inv := &Investigator{
		FirstName: firstName,
		Surname:   surname,
		Gender:    gender,
		Era:       Modern,
		Age:       age,
	}
	for _, c := range DefaultCharacteristics() {
		inv.addCharacteristic(stats.NewAttribute(c.Description, c.Code))
	}
	return inv, nil
}

// FullName returns "First Surname".
func (inv *Investigator) FullName() string {
	return inv.FirstName + " " + inv.Surname
}

// Characteristic returns the attribute for code, or nil if the investigator has none.
func (inv *Investigator) Characteristic(code string) *stats.Attribute {
	code = NormalizeCode(code)
	for _, attr := range inv.characteristics {
		if attr.Code == code {
			return attr
		}
	}
	return nil
}

// Characteristics returns the investigator's attributes in display order.
func (inv *Investigator) Characteristics() []*stats.Attribute {
	out := make([]*stats.Attribute, len(inv.characteristics))
	copy(out, inv.characteristics)
	return out
}

// ReplaceCharacteristics discards the current attributes and takes ownership of attrs.
// Used when loading a stored investigator.
func (inv *Investigator) ReplaceCharacteristics(attrs []*stats.Attribute) {
	inv.characteristics = make([]*stats.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		if attr != nil {
			inv.addCharacteristic(attr)
		}
	}
}

func (inv *Investigator) addCharacteristic(attr *stats.Attribute) {
	inv.characteristics = append(inv.characteristics, attr)
}

// Describe returns a short prose description followed by one line per characteristic.
func (inv *Investigator) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s is a %d year old %s", inv.FullName(), inv.Age, inv.Gender.Person())
	if inv.Birthplace != "" {
		fmt.Fprintf(&b, " born in %s", inv.Birthplace)
	}
	if inv.Residence != "" {
		if inv.Birthplace != "" {
			b.WriteString(" and")
		}
		fmt.Fprintf(&b, " living in %s", inv.Residence)
	}
	b.WriteString(".")

	verb := "is"
	if inv.Gender == X {
		verb = "are"
	}
	if inv.Occupation != "" {
		fmt.Fprintf(&b, " By trade %s %s %s %s.", inv.Gender.Personal(), verb, article(inv.Occupation), inv.Occupation)
	}
	era := "an unknown era"
	if inv.Era != 0 {
		era = "the " + inv.Era.String() + " era"
	}
	fmt.Fprintf(&b, " %s %s from %s.", capitalize(inv.Gender.Personal()), verb, era)

	for _, attr := range inv.characteristics {
		b.WriteString("\n  ")
		b.WriteString(attr.String())
	}
	return b.String()
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func article(word string) string {
	if word == "" {
		return "a"
	}
	switch strings.ToLower(word[:1]) {
	case "a", "e", "i", "o", "u":
		return "an"
	}
	return "a"
}
