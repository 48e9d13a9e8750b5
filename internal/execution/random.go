package execution

import (
	"math/rand/v2"
	"time"
)

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG-backed source. A zero seed picks one from
// the clock.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Uniform maps one draw from r onto [lo, hi).
func Uniform(r RandomSource, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// FixedSource replays a fixed sequence of draws, cycling when exhausted.
type FixedSource struct {
	Draws []float64
	next  int
}

func (f *FixedSource) Float64() float64 {
	if len(f.Draws) == 0 {
		return 0
	}
	v := f.Draws[f.next%len(f.Draws)]
	f.next++
	return v
}
