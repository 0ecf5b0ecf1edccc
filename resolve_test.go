package slobos

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/OBOS-dev/slobos/mapper"
)

// Exercises the slow resolver path (slabBytes > pageSize): an entry near
// the end of a multi-page slab must still resolve back to page 0 of that
// slab.
func TestResolveSlowPathMultiPageSlab(t *testing.T) {
	a, _ := newTestAllocator(t, Config{MaxEntrySize: 0x1000, SlabBytes: 0x4000}) // 4 pages of 4096

	// Fill exactly one slab so the last entry lands in its final page.
	entriesPerSlab := int((0x4000 - slabHeaderSize) / 2048)
	var last unsafe.Pointer
	for i := 0; i < entriesPerSlab; i++ {
		last = a.Alloc(2048)
	}
	require.NotNil(t, last)

	s := a.resolveSlab(last)
	require.NotNil(t, s)
	require.True(t, s.magicValid())
}

func TestResolveRejectsForeignPointer(t *testing.T) {
	a, _ := newTestAllocator(t, Config{MaxEntrySize: 0x1000, SlabBytes: 0x4000})
	var notOurs int
	require.Nil(t, a.resolveSlab(unsafe.Pointer(&notOurs)))
}

// A candidate with valid magic and in-range class index but an owner
// belonging to a different allocator must abort the scan rather than keep
// stepping backward (spec.md §4.5).
func TestResolveAbortsOnForeignOwner(t *testing.T) {
	arena := mapper.NewArenaMapper(1<<20, 4096)

	var a1, a2 Allocator
	require.NoError(t, a1.Init(Config{MaxEntrySize: 0x1000, SlabBytes: 0x4000}, 0, arena))
	require.NoError(t, a2.Init(Config{MaxEntrySize: 0x1000, SlabBytes: 0x4000}, 0, arena))

	p1 := a1.Alloc(32)
	require.NotNil(t, p1)

	// a2 must never resolve a pointer that belongs to a1's slab.
	require.Nil(t, a2.resolveSlab(p1))
}
