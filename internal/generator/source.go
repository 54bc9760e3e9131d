package generator

import (
	"math"
	"math/rand"
)

// Source is the randomness every generator draws from. *rand.Rand
// satisfies it; tests inject fixed sources.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// NewSource returns a seeded Source. Equal seeds yield equal series.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Fixed is a Source that always returns the same value.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }

// InRange draws an integer uniformly from [min, max] and returns it as a float.
func InRange(src Source, min, max int) float64 {
	return math.Floor(src.Float64()*float64(max-min+1)) + float64(min)
}

// Jitter returns base + (u - 0.5) * spread, i.e. a value within base ± spread/2.
func Jitter(src Source, base, spread float64) float64 {
	return base + (src.Float64()-0.5)*spread
}
