package easing

import "math"

// Noise returns a deterministic 1D value-noise function for seed.
// Outputs lie in [-1,1] and vary smoothly with x. Not suitable for anything
// that needs real randomness.
func Noise(seed int64) func(x float64) float64 {
	return func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		i := math.Floor(x)
		f := x - i
		a := lattice(seed, int64(i))
		b := lattice(seed, int64(i)+1)
		// smoothstep keeps the curve continuous across lattice points
		u := f * f * (3 - 2*f)
		return Lerp(a, b, u)
	}
}

// lattice hashes (seed, i) to a value in [-1,1) with a splitmix64 finalizer.
func lattice(seed, i int64) float64 {
	h := uint64(seed)*0x9E3779B97F4A7C15 ^ uint64(i)*0xBF58476D1CE4E5B9
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11)/float64(uint64(1)<<53)*2 - 1
}
