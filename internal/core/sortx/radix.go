// Package sortx holds the stable linear-time key sort used to canonicalise
// arrays that parallel workers fill in arbitrary order.
package sortx

const (
	radixBits = 8
	radixSize = 1 << radixBits
	radixMask = radixSize - 1
	passes    = 32 / radixBits
)

// SortIndirect sorts keys ascending with a stable LSD radix sort and fills
// index so that index[i] is the original slot of the i-th smallest key. Only
// keys and indices move; payload addressed by the original slots stays put.
//
// tmpKeys and tmpIndex are work buffers; all four slices must share a length.
// On return keys holds the sorted keys.
func SortIndirect(keys, index, tmpKeys, tmpIndex []uint32) {
	n := len(keys)
	if len(index) != n || len(tmpKeys) != n || len(tmpIndex) != n {
		panic("sortx: buffer length mismatch")
	}
	for i := range index {
		index[i] = uint32(i)
	}
	if n < 2 {
		return
	}

	srcK, srcI := keys, index
	dstK, dstI := tmpKeys, tmpIndex
	var counts [radixSize]int
	for pass := 0; pass < passes; pass++ {
		shift := uint(pass * radixBits)
		clear(counts[:])
		for _, k := range srcK {
			counts[(k>>shift)&radixMask]++
		}
		// Every key shares this digit: the pass would be the identity.
		if counts[(srcK[0]>>shift)&radixMask] == n {
			continue
		}
		sum := 0
		for d := range counts {
			c := counts[d]
			counts[d] = sum
			sum += c
		}
		for i, k := range srcK {
			d := (k >> shift) & radixMask
			at := counts[d]
			counts[d]++
			dstK[at] = k
			dstI[at] = srcI[i]
		}
		srcK, dstK = dstK, srcK
		srcI, dstI = dstI, srcI
	}
	if &srcK[0] != &keys[0] {
		copy(keys, srcK)
		copy(index, srcI)
	}
}

// Indirection is a convenience wrapper that allocates its own buffers and
// leaves keys untouched.
func Indirection(keys []uint32) []uint32 {
	n := len(keys)
	k := make([]uint32, n)
	copy(k, keys)
	index := make([]uint32, n)
	SortIndirect(k, index, make([]uint32, n), make([]uint32, n))
	return index
}
