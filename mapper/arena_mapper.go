package mapper

import (
	"fmt"
	"sync"
	"unsafe"
)

// ArenaMapper is an in-process fake Mapper backed by a single pre-allocated
// byte slice. It never talks to the OS, which makes it useful for tests and
// for embedders who want a fixed memory budget instead of OS pages.
//
// Grounded on the slice-backed arena idiom of the cloudwego-gopkg buddy
// allocator (arena []byte, arenaStart unsafe.Pointer, offset-based bump
// allocation out of one backing slice).
type ArenaMapper struct {
	mu       sync.Mutex
	arena    []byte
	base     uintptr
	offset   uintptr
	pageSize uintptr
}

// NewArenaMapper allocates an arena of size bytes and reports pageSize as
// its page granularity. size and pageSize must both be positive; size
// should be a multiple of pageSize for Map to be able to hand out
// page-aligned regions up to the arena's capacity.
func NewArenaMapper(size int, pageSize uintptr) *ArenaMapper {
	// Over-allocate by one page so we can align the usable region forward.
	raw := make([]byte, size+int(pageSize))
	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + pageSize - 1) &^ (pageSize - 1)
	return &ArenaMapper{
		arena:    raw[:int(aligned-base)+size],
		base:     aligned,
		offset:   aligned - base,
		pageSize: pageSize,
	}
}

func (m *ArenaMapper) Map(_ uintptr, size uintptr) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offset+size > uintptr(len(m.arena)) {
		return nil, fmt.Errorf("%w: arena exhausted (%d of %d bytes used, requested %d)",
			ErrMapFailed, m.offset, len(m.arena), size)
	}
	region := m.arena[m.offset : m.offset+size : m.offset+size]
	for i := range region {
		region[i] = 0
	}
	m.offset += size
	return region, nil
}

func (m *ArenaMapper) Unmap(_ uintptr, _ []byte, _ uintptr) error {
	// The arena is never shrunk; slabs are permanent for the allocator's
	// lifetime. Exposed only for Mapper contract completeness.
	return nil
}

func (m *ArenaMapper) PageSize() uintptr {
	return m.pageSize
}
