package slobos

import (
	"math"
	"unsafe"
)

// freeListEnd is the embedded free-list's end-of-chain sentinel.
const freeListEnd uint32 = math.MaxUint32

// magicHighBits is 0x51ABC0 shifted into the high 24 bits of the 32-bit
// magic word; the low 8 bits hold the owning class's index.
const magicHighBits uint32 = 0x51ABC000

// slabHeader is the in-band metadata written at the front of every mapped
// slab, followed immediately by the entry array (spec.md §3 "Slab").
//
// This struct's field layout, and every function below that derives a
// pointer from it, bypasses Go's normal memory-safety guarantees by
// design: slabFromRegion reinterprets raw mapper bytes as a *slabHeader,
// and resolveSlab (resolve.go) walks backwards through arbitrary caller
// pointers looking for one. Treat this file as the allocator's unsafe
// boundary, mirroring the no_sanitize("address") annotations the C source
// puts on the same set of functions.
type slabHeader struct {
	owner    *sizeClass
	freeHead uint32
	magic    uint32
	next     *slabHeader
	prev     *slabHeader
}

// slabHeaderSize is the header_bytes referenced throughout spec.md §3/§4.2:
// the entry array starts immediately after it.
var slabHeaderSize = unsafe.Sizeof(slabHeader{})

// slabFromRegion reinterprets a freshly mapped, zeroed region as a
// *slabHeader. The region must be at least slabHeaderSize bytes.
func slabFromRegion(region []byte) *slabHeader {
	return (*slabHeader)(unsafe.Pointer(&region[0]))
}

// dataBase returns the address of entry 0.
func (s *slabHeader) dataBase() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(s), slabHeaderSize)
}

// entryPtr returns the address of entry i, sized entrySize bytes.
func (s *slabHeader) entryPtr(i uint32, entrySize uint32) unsafe.Pointer {
	return unsafe.Add(s.dataBase(), uintptr(i)*uintptr(entrySize))
}

// classIndex extracts the class index from the low 8 bits of magic.
func (s *slabHeader) classIndex() int {
	return int(s.magic & 0xff)
}

// magicValid reports whether the high 24 bits of magic match the fixed
// sentinel, independent of whether the low byte names a valid class.
func (s *slabHeader) magicValid() bool {
	return s.magic&0xffffff00 == magicHighBits
}

// buildMagic packs the fixed sentinel and a class index into a 32-bit
// magic word (spec.md §3 magic field).
func buildMagic(classIndex int) uint32 {
	return magicHighBits | uint32(classIndex)
}

// entryIndexFromPointer converts an (already class-size-aligned) pointer
// inside this slab's data region back into an entry index, the inverse of
// entryPtr. Free (spec.md §4.4 step 7) computes the same index inline.
func (s *slabHeader) entryIndexFromPointer(p unsafe.Pointer, entrySize uint32) uint32 {
	offset := uintptr(p) - uintptr(s.dataBase())
	return uint32(offset / uintptr(entrySize))
}

// readNextFree reads the embedded free-list "next" word stored in the
// first four bytes of entry p.
func readNextFree(p unsafe.Pointer) uint32 {
	return *(*uint32)(p)
}

// writeNextFree writes the embedded free-list "next" word into the first
// four bytes of entry p.
func writeNextFree(p unsafe.Pointer, next uint32) {
	*(*uint32)(p) = next
}

// initFreeList threads entry i -> i+1 through the first entryCount entries
// of a freshly zeroed slab, explicitly terminating the chain with
// freeListEnd.
//
// The original C source's loop only initializes up to entryCount-1 and
// relies on the slab's initial zero-fill to leave the last entry's link
// word at 0, not UINT32_MAX — spec.md §9 open question #1 flags this as a
// bug to not replicate. Here the terminator is always written explicitly.
func initFreeList(s *slabHeader, entryCount uint32, entrySize uint32) {
	for i := uint32(0); i < entryCount; i++ {
		next := i + 1
		if i == entryCount-1 {
			next = freeListEnd
		}
		writeNextFree(s.entryPtr(i, entrySize), next)
	}
}

// constructSlab initializes a freshly mapped, zeroed region as a slab
// belonging to class c, per spec.md §4.2.
func constructSlab(region []byte, c *sizeClass, classIndex int, info classInfo) *slabHeader {
	s := slabFromRegion(region)
	s.owner = c
	s.magic = buildMagic(classIndex)
	s.next = nil
	s.prev = nil
	s.freeHead = 0
	initFreeList(s, info.entryCount, info.entrySize)
	return s
}
