package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Source is the randomness provider shared by dice expressions and
// attribute checks.
type Source interface {
	// Uniform returns a uniformly distributed integer in [1, n].
	// Panics if n < 1.
	Uniform(n int) int
}

// LockedSource is a seeded math/rand generator that is safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a LockedSource seeded with seed.
// Identical seeds produce identical sequences.
func NewSource(seed int64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomSource returns a LockedSource seeded from crypto/rand.
func NewRandomSource() (*LockedSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSource(seed), nil
}

// Uniform returns a random integer in [1, n].
func (s *LockedSource) Uniform(n int) int {
	if n < 1 {
		panic(fmt.Sprintf("dice: Uniform called with n = %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Sequence is a deterministic Source that replays a fixed list of values,
// cycling when exhausted. Values outside [1, n] are clamped.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
	calls  int
}

// NewSequence returns a Sequence replaying values. At least one value is required.
func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		panic("dice: NewSequence requires at least one value")
	}
	return &Sequence{values: values}
}

// Uniform returns the next value in the sequence, clamped to [1, n].
func (s *Sequence) Uniform(n int) int {
	if n < 1 {
		panic(fmt.Sprintf("dice: Uniform called with n = %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.calls++

	if v < 1 {
		return 1
	}
	if v > n {
		return n
	}
	return v
}

// Calls returns how many values have been drawn.
func (s *Sequence) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// D6 rolls a 6-sided die (1-6)
func D6(src Source) int {
	return src.Uniform(6)
}

// D10 rolls a 10-sided die (1-10)
func D10(src Source) int {
	return src.Uniform(10)
}

// D100 rolls a 100-sided die (1-100), used for percentile checks
func D100(src Source) int {
	return src.Uniform(100)
}

// Roll rolls n dice with the specified number of sides and returns the total
func Roll(src Source, n, sides int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += src.Uniform(sides)
	}
	return total
}
