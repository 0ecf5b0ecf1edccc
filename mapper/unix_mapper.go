//go:build unix

package mapper

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// UnixMapper maps anonymous, private pages via mmap(2). handle is accepted
// for contract compatibility but otherwise ignored by this implementation —
// every handle gets pages from the same OS address space.
//
// Grounded on the mmap-based tester harness in the original C source
// (src/tester/main.c: slobos_map/unmap/pgsize wired straight to
// mmap/munmap/sysconf(_SC_PAGESIZE)).
type UnixMapper struct {
	pageSizeOnce sync.Once
	pageSize     uintptr
}

// NewUnixMapper returns a Mapper backed by the OS virtual memory manager.
func NewUnixMapper() *UnixMapper {
	return &UnixMapper{}
}

func (m *UnixMapper) Map(_ uintptr, size uintptr) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %v", ErrMapFailed, size, err)
	}
	return region, nil
}

func (m *UnixMapper) Unmap(_ uintptr, region []byte, _ uintptr) error {
	if err := unix.Munmap(region); err != nil {
		return fmt.Errorf("mapper: munmap: %w", err)
	}
	return nil
}

func (m *UnixMapper) PageSize() uintptr {
	m.pageSizeOnce.Do(func() {
		m.pageSize = uintptr(unix.Getpagesize())
	})
	return m.pageSize
}
