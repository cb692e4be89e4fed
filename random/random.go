// Package random provides the uniform draws shared by every part of the simulation.
package random

// Source is the single pseudo-random stream injected into genome, perception,
// policy, reproduction and plant placement. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Uniform returns a draw in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Uniform32 is Uniform for float32 fields.
func Uniform32(src Source, lo, hi float32) float32 {
	return lo + float32(src.Float64())*(hi-lo)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Coin is a fair coin flip.
func Coin(src Source) bool {
	return src.Intn(2) == 0
}

// IntBetween returns an integer in [lo, hi], both inclusive.
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Constant is a Source that always returns the same draws.
// Tests use it to pin exploration, mutation and partner choice.
type Constant struct {
	F float64 // returned by Float64, expected in [0, 1)
	I int     // returned by Intn modulo n
}

// Float64 returns c.F.
func (c Constant) Float64() float64 { return c.F }

// Intn returns c.I modulo n.
func (c Constant) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := c.I % n
	if v < 0 {
		v += n
	}
	return v
}
