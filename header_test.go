package slobos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMagicAndValidation(t *testing.T) {
	m := buildMagic(5)
	require.EqualValues(t, 5, m&0xff)
	h := slabHeader{magic: m}
	require.True(t, h.magicValid())
	require.Equal(t, 5, h.classIndex())

	corrupt := slabHeader{magic: 0xdeadbeef}
	require.False(t, corrupt.magicValid())
}

func TestInitFreeListTerminatesExplicitly(t *testing.T) {
	// A zeroed region should never leave the tail link at 0 — it must be
	// explicitly freeListEnd (spec.md §9 open question #1).
	const entrySize = 32
	const entryCount = 4

	region := make([]byte, int(slabHeaderSize)+entrySize*entryCount)
	s := slabFromRegion(region)
	initFreeList(s, entryCount, entrySize)

	for i := uint32(0); i < entryCount-1; i++ {
		require.Equal(t, i+1, readNextFree(s.entryPtr(i, entrySize)), "entry %d should point to %d", i, i+1)
	}
	require.Equal(t, freeListEnd, readNextFree(s.entryPtr(entryCount-1, entrySize)), "last entry must terminate with freeListEnd, not 0")
}

func TestEntryIndexFromPointerRoundTrips(t *testing.T) {
	const entrySize = 64
	region := make([]byte, int(slabHeaderSize)+entrySize*8)
	s := slabFromRegion(region)

	for i := uint32(0); i < 8; i++ {
		p := s.entryPtr(i, entrySize)
		require.Equal(t, i, s.entryIndexFromPointer(p, entrySize))
	}
}
