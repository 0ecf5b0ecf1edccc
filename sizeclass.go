package slobos

import "github.com/OBOS-dev/slobos/bits"

// maxClassCount bounds the class table the way the original C array bound
// did: caches[bsf(0x40000) - bsf(0x20)] = caches[13]. Init derives
// classCount as log2(maxEntrySize) - 5, so the largest allocatable class
// is maxEntrySize/2 and a request of exactly maxEntrySize bytes is
// rejected — carried forward unchanged from the source this spec was
// distilled from, not treated as a bug.
const maxClassCount = 13

// minEntrySize is the smallest size class, class 0.
const minEntrySize = 32

// hardSizeCeiling is the absolute ceiling on both maxEntrySize and
// slabBytes (spec.md §4.1/§4.9, 0x40000 in the C source).
const hardSizeCeiling = 0x40000

// classInfo describes one size class's fixed geometry. It never changes
// after buildClasses runs, so it's plain data rather than something the
// class table mutates.
type classInfo struct {
	entrySize  uint32 // 32 << index
	entryCount uint32 // floor((slabBytes - headerBytes) / entrySize)
}

// entrySizeForClass returns 32 * 2^index.
func entrySizeForClass(index int) uint32 {
	return minEntrySize << uint(index)
}

// classIndexForEntrySize returns log2(entrySize) - 5 for a power-of-two
// entrySize >= minEntrySize.
func classIndexForEntrySize(entrySize uint32) int {
	return bits.Log2Floor(uint64(entrySize)) - 5
}

// buildClasses computes the per-class entry geometry for every class up to
// classCount, given the slab's usable byte count (slabBytes - headerBytes).
// This is a pure function instead of the package-level mutable globals
// msize.go uses (initSizes/class_to_size) because this implementation
// supports many independently configured allocators in one process, where
// the Go runtime itself only ever needs one.
func buildClasses(classCount int, slabBytes uintptr, headerBytes uintptr) [maxClassCount]classInfo {
	var classes [maxClassCount]classInfo
	usable := slabBytes - headerBytes
	for i := 0; i < classCount; i++ {
		size := entrySizeForClass(i)
		classes[i] = classInfo{
			entrySize:  size,
			entryCount: uint32(usable / uintptr(size)),
		}
	}
	return classes
}

// selectClass resolves a requested byte count to a class index and entry
// size, implementing spec.md §4.1.
//
// Returns ok=false for n==0, n exceeding hardSizeCeiling, or a class index
// that falls outside [0, classCount).
func selectClass(n uintptr, classCount int) (index int, entrySize uint32, ok bool) {
	if n == 0 || n > hardSizeCeiling {
		return 0, 0, false
	}
	rounded := bits.NextPow2(uint64(n))
	if rounded < minEntrySize {
		rounded = minEntrySize
	}
	c := classIndexForEntrySize(uint32(rounded))
	if c < 0 || c >= classCount {
		return 0, 0, false
	}
	return c, uint32(rounded), true
}
