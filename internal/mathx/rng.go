// Package mathx holds the stable hashing and counter-based random draws the
// simulation keeps per unit. Nothing here touches math/rand or global state.
package mathx

// Hash32 mixes 32-bit input into a well-distributed 32-bit output
// (Murmur3-style finalizer).
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 returns a stable hash of two words and a seed.
func Hash2(seed, a, b uint32) uint32 {
	h := seed
	h ^= a * 0x9e3779b1
	h ^= Hash32(b) * 0x85ebca6b
	return Hash32(h)
}

// Draw returns the value at position counter of the stream keyed by seed and
// the counter the caller must store back for the next draw.
func Draw(seed, counter uint32) (value, next uint32) {
	return Hash2(Hash32(seed), counter, 0xc2b2ae35), counter + 1
}

// IntN draws a value in [0, n) from the stream. n must be > 0.
func IntN(seed, counter, n uint32) (value, next uint32) {
	v, next := Draw(seed, counter)
	return uint32(uint64(v) * uint64(n) >> 32), next
}

// Float draws a value in [0, 1).
func Float(seed, counter uint32) (value float64, next uint32) {
	v, next := Draw(seed, counter)
	return float64(v) / (1 << 32), next
}

// DeriveSeed produces the seed a unit carries into its next life.
func DeriveSeed(seed, counter uint32) uint32 {
	return Hash2(seed, counter, 0x27d4eb2f)
}
