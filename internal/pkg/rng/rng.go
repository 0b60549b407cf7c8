// Package rng provides the randomness source for all gameplay rolls.
//
// Every engine takes an injected Source rather than reaching for an
// ambient generator: production wiring uses the unpredictable
// crypto-backed default (determinism in gameplay rolls would be an
// integrity bug), while tests and Monte-Carlo simulation substitute a
// seeded source.
package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

//go:generate mockgen -destination=mock/mock.go -package=rngmock github.com/questforge/progression-api/internal/pkg/rng Source

// Source produces the random draws the engines consume.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64

	// IntN returns a uniform value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

// cryptoSource reads from crypto/rand, falling back to math/rand/v2
// if the system source fails.
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Float64()
	}

	// 53 bits of mantissa
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func (s cryptoSource) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with n <= 0")
	}
	return int(s.Float64() * float64(n))
}

// Default returns the unpredictable production source.
func Default() Source { return cryptoSource{} }

// seededSource is a replicable source for tests and simulation.
type seededSource struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic PCG-backed source.
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

func (s *seededSource) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with n <= 0")
	}
	return s.r.IntN(n)
}

// IntBetween draws a uniform integer in [low, high] inclusive.
func IntBetween(src Source, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return low + src.IntN(high-low+1)
}

// Chance returns true with probability p. p <= 0 never hits and
// p >= 1 always hits without consuming a draw.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}
