package slobos

import "unsafe"

// sentinelSize is returned by GetSize when a pointer can't be resolved to
// a slab (spec.md §4.7 "SIZE_MAX").
const sentinelSize = ^uintptr(0)

// Alloc returns a pointer to a newly allocated entry of at least n bytes,
// or nil (spec.md §4.3). n == 0, n exceeding the class ceiling, or a class
// index outside the allocator's configured range all yield nil.
//
// The returned entry's contents are unspecified — it may still hold the
// stale free-list "next" word this call just consumed.
func (a *Allocator) Alloc(n uintptr) unsafe.Pointer {
	if a == nil {
		return nil
	}
	index, _, ok := selectClass(n, a.classCount)
	if !ok {
		return nil
	}

	class := &a.classes[index]
	if class.head == nil {
		s, err := a.growClass(index)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Debugw("slab map failed", "class", index, "err", err)
			}
			return nil
		}
		class.linkFresh(s)
		a.updateStats(func(st *AllocatorStats) { st.SlabsMapped++ })
		if a.Logger != nil {
			a.Logger.Debugw("slab constructed", "class", index, "entrySize", a.classInfo[index].entrySize)
		}
	}

	s := class.head
	entrySize := a.classInfo[index].entrySize
	entry := s.entryPtr(s.freeHead, entrySize)
	s.freeHead = readNextFree(entry)
	if s.freeHead == freeListEnd {
		class.unlink(s)
		if a.Logger != nil {
			a.Logger.Debugw("slab exhausted, detached from class list", "class", index)
		}
	}

	a.updateStats(func(st *AllocatorStats) { st.Allocations++ })
	return entry
}

// growClass maps a fresh slab for class index and constructs it
// (spec.md §4.2).
func (a *Allocator) growClass(index int) (*slabHeader, error) {
	region, err := a.mapper.Map(a.mapHandle, a.slabBytes)
	if err != nil {
		return nil, err
	}
	class := &a.classes[index]
	info := a.classInfo[index]
	return constructSlab(region, class, index, info), nil
}

// Calloc allocates room for count objects of size szObj each and zeroes
// the result (spec.md §4.8). If the underlying Alloc fails, zeroing is
// skipped and nil is returned.
func (a *Allocator) Calloc(count, szObj uintptr) unsafe.Pointer {
	n := count * szObj
	p := a.Alloc(n)
	if p == nil {
		return nil
	}
	zeroBytes(p, n)
	return p
}

// Free returns p's entry to its owning slab's free list (spec.md §4.4).
// A nil allocator, nil pointer, or a pointer that doesn't resolve to a
// slab owned by a are all silent no-ops — this is indistinguishable from
// a successful free, a deliberate tradeoff against crashing inside the
// resolver on malformed input (spec.md §7).
func (a *Allocator) Free(p unsafe.Pointer) {
	if a == nil || p == nil {
		return
	}
	s := a.resolveSlab(p)
	if s == nil {
		a.updateStats(func(st *AllocatorStats) { st.InvalidFrees++ })
		if a.Logger != nil {
			a.Logger.Warnw("free: pointer did not resolve to a slab", "ptr", p)
		}
		return
	}

	classIndex := s.classIndex()
	entrySize := a.classInfo[classIndex].entrySize
	class := &a.classes[classIndex]

	// Defensive: callers may pass interior pointers, so align down to the
	// entry boundary before touching the free-list link word. Entries are
	// laid out relative to the slab's data base (header.go dataBase), not
	// on an absolute entrySize boundary, so the alignment must happen in
	// data-base-relative coordinates — unlike resolve.go's alignDown,
	// which rounds absolute addresses down to a page boundary.
	off := uintptr(p) - uintptr(s.dataBase())
	idx := uint32(off / uintptr(entrySize))
	aligned := s.entryPtr(idx, entrySize)

	// Scrub, then immediately overwrite with the real free-list link —
	// spec.md §4.4 steps 5 and 7 call these out as separate writes.
	writeNextFree(aligned, 0)

	if s.freeHead == freeListEnd {
		class.attachTail(s)
		if a.Logger != nil {
			a.Logger.Debugw("slab reattached to class list", "class", classIndex)
		}
	}

	writeNextFree(aligned, s.freeHead)
	s.freeHead = idx

	a.updateStats(func(st *AllocatorStats) { st.Frees++ })
}

// GetSize resolves p's owning slab and returns its class entry size —
// which may be larger than the size originally requested — or the
// sentinel value ^uintptr(0) if p doesn't resolve (spec.md §4.7).
func (a *Allocator) GetSize(p unsafe.Pointer) uintptr {
	if a == nil || p == nil {
		return sentinelSize
	}
	s := a.resolveSlab(p)
	if s == nil {
		return sentinelSize
	}
	return uintptr(a.classInfo[s.classIndex()].entrySize)
}

// Realloc resizes the entry at p to newSize (spec.md §4.6). newSize == 0
// frees p and returns nil; p == nil behaves like Alloc(newSize). On
// failure to allocate the new entry, the old entry is left untouched and
// nil is returned. min(oldSize, newSize) bytes are preserved, never more —
// this intentionally departs from the original C source, which copies the
// old entry's full class size unconditionally and can overrun a smaller
// new entry on shrink; see DESIGN.md.
func (a *Allocator) Realloc(p unsafe.Pointer, newSize uintptr) unsafe.Pointer {
	if a == nil {
		return nil
	}
	if newSize == 0 {
		a.Free(p)
		return nil
	}
	if p == nil {
		return a.Alloc(newSize)
	}

	oldSize := a.GetSize(p)
	if oldSize == sentinelSize {
		return nil
	}

	newPtr := a.Alloc(newSize)
	if newPtr == nil {
		return nil
	}

	copySize := oldSize
	if newSize < copySize {
		copySize = newSize
	}
	copyBytes(newPtr, p, copySize)
	a.Free(p)
	return newPtr
}

func zeroBytes(p unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	d := unsafe.Slice((*byte)(dst), n)
	s := unsafe.Slice((*byte)(src), n)
	copy(d, s)
}
