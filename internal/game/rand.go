package game

import (
	"math"
	mathrand "math/rand"
	"time"
)

// Rand is the single in-process random source every rule draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

func chance(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}

func between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// jitter returns a value in [-amp, amp).
func jitter(r Rand, amp float64) float64 {
	return (r.Float64()*2 - 1) * amp
}

func pick(r Rand, n int) int {
	if n <= 1 {
		return 0
	}
	idx := r.Intn(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// StochasticRound keeps expected value linear under tiny per-tick fractions:
// 0.3 becomes 1 with probability 0.3, otherwise 0.
func StochasticRound(r Rand, v float64) int64 {
	if v == 0 {
		return 0
	}
	sign := int64(1)
	if v < 0 {
		sign = -1
		v = -v
	}
	whole := math.Floor(v)
	frac := v - whole
	out := int64(whole)
	if frac > 0 && r.Float64() < frac {
		out++
	}
	return sign * out
}
