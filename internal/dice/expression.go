// Package dice parses dice notation and rolls it against an injected Source.
package dice

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformedExpression is returned when dice notation cannot be parsed.
	ErrMalformedExpression = errors.New("malformed dice expression")

	// ErrTooManyDice is returned by Limit when an expression rolls too many dice.
	ErrTooManyDice = errors.New("too many dice")
)

// notationRegex matches dice notation like "3D6", "2D6+6", "1d8-2"
var notationRegex = regexp.MustCompile(`^(\d+)[dD](\d+)(?:([+-])(\d+))?$`)

// Expression is a parsed, immutable dice expression. It can be rolled any
// number of times; each roll is an independent sample.
type Expression struct {
	count    int
	sides    int
	modifier int
}

// Parse parses notation of the form <count>D<sides>[+<modifier>|-<modifier>].
// Count and sides must be positive.
func Parse(notation string) (Expression, error) {
	trimmed := strings.TrimSpace(notation)
	matches := notationRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return Expression{}, fmt.Errorf("%w: %q", ErrMalformedExpression, notation)
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %q: dice count: %v", ErrMalformedExpression, notation, err)
	}
	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return Expression{}, fmt.Errorf("%w: %q: sides: %v", ErrMalformedExpression, notation, err)
	}
	// A one-sided die is allowed and always rolls 1.
	if count <= 0 || sides <= 0 {
		return Expression{}, fmt.Errorf("%w: %q: count and sides must be positive", ErrMalformedExpression, notation)
	}

	modifier := 0
	if matches[3] != "" {
		modifier, err = strconv.Atoi(matches[4])
		if err != nil {
			return Expression{}, fmt.Errorf("%w: %q: modifier: %v", ErrMalformedExpression, notation, err)
		}
		if matches[3] == "-" {
			modifier = -modifier
		}
	}

	if count > (math.MaxInt-abs(modifier))/sides {
		return Expression{}, fmt.Errorf("%w: %q: range overflows int", ErrMalformedExpression, notation)
	}

	return Expression{count: count, sides: sides, modifier: modifier}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// MustParse is like Parse but panics if the notation is malformed.
func MustParse(notation string) Expression {
	expr, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return expr
}

// Count returns the number of dice.
func (e Expression) Count() int { return e.count }

// Sides returns the number of sides per die.
func (e Expression) Sides() int { return e.sides }

// Modifier returns the fixed additive modifier.
func (e Expression) Modifier() int { return e.modifier }

// Limit returns ErrTooManyDice if the expression rolls more than max dice.
func (e Expression) Limit(max int) error {
	if e.count > max {
		return fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyDice, e.count, max)
	}
	return nil
}

// Min returns the lowest possible roll.
func (e Expression) Min() int {
	return e.count + e.modifier
}

// Max returns the highest possible roll.
func (e Expression) Max() int {
	return e.count*e.sides + e.modifier
}

// String returns the canonical notation, e.g. "3D6", "2D6+6", "1D8-2".
func (e Expression) String() string {
	switch {
	case e.modifier > 0:
		return fmt.Sprintf("%dD%d+%d", e.count, e.sides, e.modifier)
	case e.modifier < 0:
		return fmt.Sprintf("%dD%d-%d", e.count, e.sides, -e.modifier)
	default:
		return fmt.Sprintf("%dD%d", e.count, e.sides)
	}
}

// Roll draws count dice from src, sums them and adds the modifier.
// The result is not clamped.
func (e Expression) Roll(src Source) int {
	return Roll(src, e.count, e.sides) + e.modifier
}

// RollDetailed rolls like Roll but keeps every die for auditing.
func (e Expression) RollDetailed(src Source) Result {
	results := make([]int, e.count)
	for i := range results {
		results[i] = src.Uniform(e.sides)
	}
	return Result{
		Expression: e.String(),
		Dice:       results,
		Modifier:   e.modifier,
	}
}

// Result holds every die drawn for a single roll.
type Result struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all dice plus the modifier.
func (r Result) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String formats the roll as "2D6+6 → [4 5] +6 = 15".
func (r Result) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
