package slobos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectClass(t *testing.T) {
	const classCount = 7 // maxEntrySize = 0x1000

	cases := []struct {
		n          uintptr
		wantIndex  int
		wantSize   uint32
		wantOK     bool
	}{
		{n: 0, wantOK: false},
		{n: 1, wantIndex: 0, wantSize: 32, wantOK: true},
		{n: 32, wantIndex: 0, wantSize: 32, wantOK: true},
		{n: 33, wantIndex: 1, wantSize: 64, wantOK: true},
		{n: 2048, wantIndex: 6, wantSize: 2048, wantOK: true},
		{n: 2049, wantOK: false}, // class index 7 >= classCount(7)
		{n: hardSizeCeiling + 1, wantOK: false},
	}

	for _, c := range cases {
		idx, size, ok := selectClass(c.n, classCount)
		require.Equal(t, c.wantOK, ok, "n=%d", c.n)
		if c.wantOK {
			require.Equal(t, c.wantIndex, idx, "n=%d", c.n)
			require.Equal(t, c.wantSize, size, "n=%d", c.n)
		}
	}
}

func TestBuildClasses(t *testing.T) {
	classes := buildClasses(3, 0x1000, slabHeaderSize)
	require.EqualValues(t, 32, classes[0].entrySize)
	require.EqualValues(t, 64, classes[1].entrySize)
	require.EqualValues(t, 128, classes[2].entrySize)

	usable := uintptr(0x1000) - slabHeaderSize
	require.EqualValues(t, usable/32, classes[0].entryCount)
	require.EqualValues(t, usable/64, classes[1].entryCount)
	require.EqualValues(t, usable/128, classes[2].entryCount)
}

func TestClassIndexForEntrySize(t *testing.T) {
	require.Equal(t, 0, classIndexForEntrySize(32))
	require.Equal(t, 1, classIndexForEntrySize(64))
	require.Equal(t, 6, classIndexForEntrySize(2048))
}
