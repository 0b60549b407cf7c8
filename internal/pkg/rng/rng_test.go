package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/questforge/progression-api/internal/pkg/rng"
)

func TestDefaultFloat64Range(t *testing.T) {
	src := rng.Default()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededIsReproducible(t *testing.T) {
	a := rng.NewSeeded(42)
	b := rng.NewSeeded(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(10), b.IntN(10))
	}
}

func TestIntBetween(t *testing.T) {
	src := rng.NewSeeded(7)
	for i := 0; i < 1000; i++ {
		v := rng.IntBetween(src, 4, 8)
		assert.GreaterOrEqual(t, v, 4)
		assert.LessOrEqual(t, v, 8)
	}
}

func TestChanceBoundaries(t *testing.T) {
	src := rng.NewSeeded(1)

	assert.False(t, rng.Chance(src, 0))
	assert.False(t, rng.Chance(src, -0.5))
	assert.True(t, rng.Chance(src, 1))
	assert.True(t, rng.Chance(src, 1.5))
}

func TestIntNPanicsOnNonPositive(t *testing.T) {
	src := rng.NewSeeded(1)
	assert.Panics(t, func() { src.IntN(0) })
	assert.Panics(t, func() { rng.Default().IntN(-1) })
}
