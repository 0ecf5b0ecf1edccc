package slobos

import "unsafe"

// resolveSlab recovers a slab header from an arbitrary pointer the caller
// claims came from this allocator (spec.md §4.5). It never panics on a
// bogus pointer in the sense of returning an error — but, as the design
// notes in spec.md §9 acknowledge, scanning a pointer that never came from
// this allocator can still touch unmapped memory and fault; the contract
// is that callers only ever pass previously returned pointers.
func (a *Allocator) resolveSlab(p unsafe.Pointer) *slabHeader {
	if a.mapper == nil {
		return nil
	}
	pageSize := a.mapper.PageSize()

	if a.slabBytes == pageSize {
		// Fast path: every slab is exactly one page, so p's slab is just
		// p rounded down to the page boundary.
		candidate := (*slabHeader)(alignDown(p, a.slabBytes))
		if ok, _ := a.checkCandidate(candidate); ok {
			return candidate
		}
		return nil
	}

	// Slow path: step down one page at a time, up to slabBytes/pageSize
	// pages, until a valid candidate is found or the scan is aborted.
	candidate := alignDown(p, pageSize)
	steps := a.slabBytes / pageSize
	for i := uintptr(0); i < steps; i++ {
		s := (*slabHeader)(candidate)
		ok, abort := a.checkCandidate(s)
		if ok {
			return s
		}
		if abort {
			// Valid magic and in-range class index, but the owner
			// back-pointer names a different allocator: this candidate
			// belongs to some other allocator's slab, and stepping
			// further back would cross into that allocator's region.
			return nil
		}
		candidate = unsafe.Pointer(uintptr(candidate) - pageSize)
	}
	return nil
}

// checkCandidate validates a candidate slab header. ok reports whether the
// candidate is a genuine slab owned by a. abort reports whether the scan
// should stop here regardless of ok — true only when the magic and class
// index are both plausible but the owner back-pointer points elsewhere
// (spec.md §4.5's "abort early" case).
func (a *Allocator) checkCandidate(s *slabHeader) (ok bool, abort bool) {
	if !s.magicValid() {
		return false, false
	}
	classIndex := s.classIndex()
	if classIndex >= a.classCount {
		// Design note #2: strict >=, classes are zero-indexed. Not a
		// cross-allocator signal by itself, so the scan keeps going.
		return false, false
	}
	if s.owner == nil || s.owner.alloc != a {
		return false, true
	}
	return true, false
}

// alignDown rounds p down to the nearest multiple of align, which must be
// a power of two.
func alignDown(p unsafe.Pointer, align uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) &^ (align - 1))
}
