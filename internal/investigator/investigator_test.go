package investigator

import (
	"errors"
	"strings"
	"testing"

	"github.com/lawnchairsociety/tococyn/internal/dice"
)

func newJessy(t *testing.T) *Investigator {
	t.Helper()
	inv, err := New("Jessy", "Williams", Female, 20)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	inv.Birthplace = "Boston"
	inv.Residence = "Arkham"
	return inv
}

func TestNew(t *testing.T) {
	inv := newJessy(t)

	if inv.FullName() != "Jessy Williams" {
		t.Errorf("FullName() = %q", inv.FullName())
	}
	if inv.Era != Modern {
		t.Errorf("Era = %s, expected Modern", inv.Era)
	}
	if len(inv.Characteristics()) != 8 {
		t.Fatalf("expected 8 characteristics, got %d", len(inv.Characteristics()))
	}
	for _, attr := range inv.Characteristics() {
		if attr.IsSet() {
			t.Errorf("%s is set on a new investigator", attr.Code)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		surname string
		gender  Gender
		age     int
	}{
		{"empty first name", " ", "Williams", Female, 20},
		{"empty surname", "Jessy", "", Female, 20},
		{"bad gender", "Jessy", "Williams", Gender("robot"), 20},
		{"zero age", "Jessy", "Williams", Female, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.first, tt.surname, tt.gender, tt.age)
			if !errors.Is(err, ErrInvalidInvestigator) {
				t.Errorf("expected ErrInvalidInvestigator, got %v", err)
			}
		})
	}
}

func TestCharacteristicLookup(t *testing.T) {
	inv := newJessy(t)
	if inv.Characteristic("str") == nil {
		t.Error("Characteristic(\"str\") = nil, expected case-insensitive match")
	}
	if inv.Characteristic("LUCK") != nil {
		t.Error("Characteristic(\"LUCK\") should be nil")
	}
}

func TestSetCharacteristicsRolled(t *testing.T) {
	inv := newJessy(t)
	roller := NewRoller(dice.NewSource(1))

	if err := roller.SetCharacteristics(inv, nil); err != nil {
		t.Fatalf("SetCharacteristics returned error: %v", err)
	}

	for _, c := range DefaultCharacteristics() {
		attr := inv.Characteristic(c.Code)
		rating, err := attr.Regular()
		if err != nil {
			t.Fatalf("%s: %v", c.Code, err)
		}
		expr := dice.MustParse(c.Notation)
		if rating < expr.Min()*5 || rating > expr.Max()*5 {
			t.Errorf("%s rating %d outside %d-%d", c.Code, rating, expr.Min()*5, expr.Max()*5)
		}
		if rating%5 != 0 {
			t.Errorf("%s rating %d is not a multiple of 5", c.Code, rating)
		}
	}
}

func TestSetCharacteristicsDeterministic(t *testing.T) {
	// STR 3D6 draws 6,6,1 -> 13 -> 65
	inv := newJessy(t)
	roller := NewRoller(dice.NewSequence(6, 6, 1))
	roller.Table = []Characteristic{{Code: STR, Description: "Strength", Notation: "3D6"}}

	if err := roller.SetCharacteristics(inv, nil); err != nil {
		t.Fatalf("SetCharacteristics returned error: %v", err)
	}

	attr := inv.Characteristic(STR)
	regular, _ := attr.Regular()
	half, _ := attr.Half()
	fifth, _ := attr.Fifth()
	if regular != 65 || half != 32 || fifth != 13 {
		t.Errorf("STR = R:%d H:%d F:%d, expected R:65 H:32 F:13", regular, half, fifth)
	}
}

func TestSetCharacteristicsOverrides(t *testing.T) {
	inv := newJessy(t)
	src := dice.NewSequence(1)
	roller := NewRoller(src)
	roller.Table = []Characteristic{
		{Code: STR, Description: "Strength", Notation: "3D6"},
		{Code: INT, Description: "Intelligence", Notation: "2D6+6"},
	}

	if err := roller.SetCharacteristics(inv, map[string]int{"str": 12}); err != nil {
		t.Fatalf("SetCharacteristics returned error: %v", err)
	}

	if got, _ := inv.Characteristic(STR).Regular(); got != 60 {
		t.Errorf("STR = %d, expected 60 from override", got)
	}
	// INT rolled from the sequence: 1 + 1 + 6 = 8 -> 40
	if got, _ := inv.Characteristic(INT).Regular(); got != 40 {
		t.Errorf("INT = %d, expected 40", got)
	}
	if src.Calls() != 2 {
		t.Errorf("drew %d values, expected 2 (override must not roll)", src.Calls())
	}
}

func TestSetCharacteristicsUnknownOverride(t *testing.T) {
	inv := newJessy(t)
	roller := NewRoller(dice.NewSource(1))

	err := roller.SetCharacteristics(inv, map[string]int{"LUCK": 10})
	if !errors.Is(err, ErrUnknownCharacteristic) {
		t.Fatalf("expected ErrUnknownCharacteristic, got %v", err)
	}
	if inv.Characteristic(STR).IsSet() {
		t.Error("STR was set despite the error")
	}
}

func TestSetCharacteristicsMalformedTable(t *testing.T) {
	inv := newJessy(t)
	roller := NewRoller(dice.NewSource(1))
	roller.Table = append(roller.Table, Characteristic{Code: "LUCK", Description: "Luck", Notation: "3X6"})

	err := roller.SetCharacteristics(inv, nil)
	if !errors.Is(err, dice.ErrMalformedExpression) {
		t.Fatalf("expected ErrMalformedExpression, got %v", err)
	}
	if inv.Characteristic(STR).IsSet() {
		t.Error("STR was set despite the error")
	}
}

func TestSetCharacteristicsAddsNewCodes(t *testing.T) {
	inv := newJessy(t)
	roller := NewRoller(dice.NewSequence(3))
	roller.Table = []Characteristic{{Code: "luck", Description: "Luck", Notation: "3D6"}}
	roller.Multiplier = 5

	if err := roller.SetCharacteristics(inv, nil); err != nil {
		t.Fatalf("SetCharacteristics returned error: %v", err)
	}
	luck := inv.Characteristic("LUCK")
	if luck == nil {
		t.Fatal("LUCK was not added")
	}
	if got, _ := luck.Regular(); got != 45 {
		t.Errorf("LUCK = %d, expected 45", got)
	}
}

func TestDescribe(t *testing.T) {
	inv := newJessy(t)
	inv.Occupation = "antiquarian"
	inv.Characteristic(STR).SetRegular(65)

	desc := inv.Describe()
	wantPrefix := "Jessy Williams is a 20 year old woman born in Boston and living in Arkham. By trade she is an antiquarian. She is from the Modern era."
	if !strings.HasPrefix(desc, wantPrefix) {
		t.Errorf("Describe() = %q, expected prefix %q", desc, wantPrefix)
	}
	if !strings.Contains(desc, "Strength/STR(R: 65 H: 32 F: 13)") {
		t.Errorf("Describe() missing STR line: %q", desc)
	}
	if !strings.Contains(desc, "Education/EDU(Not yet set)") {
		t.Errorf("Describe() missing unset EDU line: %q", desc)
	}
}

func TestDescribeGenderX(t *testing.T) {
	inv, err := New("Sam", "Reed", X, 31)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	inv.Occupation = "journalist"
	if !strings.Contains(inv.Describe(), "31 year old X. By trade they are a journalist. They are from the Modern era.") {
		t.Errorf("Describe() = %q", inv.Describe())
	}
}

func TestDescribeWithoutOccupation(t *testing.T) {
	inv, err := New("Harvey", "Walters", Male, 42)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	inv.Era = Pulp

	desc := inv.Describe()
	if !strings.HasPrefix(desc, "Harvey Walters is a 42 year old man. He is from the Pulp era.\n") {
		t.Errorf("Describe() = %q, expected a pronoun sentence without occupation", desc)
	}

	inv.Era = 0
	if !strings.Contains(inv.Describe(), "He is from an unknown era.") {
		t.Errorf("Describe() = %q, expected unknown era", inv.Describe())
	}
}

func TestGenderPronouns(t *testing.T) {
	tests := []struct {
		gender                                 Gender
		person, possessive, object, personal string
	}{
		{Male, "man", "his", "him", "he"},
		{Female, "woman", "her", "her", "she"},
		{X, "X", "theirs", "them", "they"},
	}

	for _, tt := range tests {
		t.Run(string(tt.gender), func(t *testing.T) {
			if tt.gender.Person() != tt.person {
				t.Errorf("Person() = %q, expected %q", tt.gender.Person(), tt.person)
			}
			if tt.gender.Possessive() != tt.possessive {
				t.Errorf("Possessive() = %q, expected %q", tt.gender.Possessive(), tt.possessive)
			}
			if tt.gender.Object() != tt.object {
				t.Errorf("Object() = %q, expected %q", tt.gender.Object(), tt.object)
			}
			if tt.gender.Personal() != tt.personal {
				t.Errorf("Personal() = %q, expected %q", tt.gender.Personal(), tt.personal)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	for input, want := range map[string]Gender{"Female": Female, "m": Male, " X ": X, "woman": Female} {
		got, err := ParseGender(input)
		if err != nil || got != want {
			t.Errorf("ParseGender(%q) = %q, %v, expected %q", input, got, err, want)
		}
	}
	if _, err := ParseGender("robot"); err == nil {
		t.Error("ParseGender(\"robot\") returned nil error")
	}
}

func TestParseEra(t *testing.T) {
	for input, want := range map[string]Era{"1920s": NineteenTwenties, "MODERN": Modern, "pulp": Pulp} {
		got, err := ParseEra(input)
		if err != nil || got != want {
			t.Errorf("ParseEra(%q) = %v, %v, expected %v", input, got, err, want)
		}
	}
	if _, err := ParseEra("future"); err == nil {
		t.Error("ParseEra(\"future\") returned nil error")
	}
	if NineteenTwenties.String() != "1920s" {
		t.Errorf("NineteenTwenties.String() = %q", NineteenTwenties.String())
	}
}
