package slobos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClassUnlinkAndAttachTail(t *testing.T) {
	var c sizeClass
	s1 := &slabHeader{}
	s2 := &slabHeader{}
	s3 := &slabHeader{}

	c.linkFresh(s1)
	require.Equal(t, s1, c.head)
	require.Equal(t, s1, c.tail)

	// Design note #4: attaching at the tail sets the new slab's prev to
	// the old tail, the old tail's next to the new slab, new slab's next
	// stays nil.
	c.attachTail(s2)
	require.Equal(t, s1, c.head)
	require.Equal(t, s2, c.tail)
	require.Equal(t, s2, s1.next)
	require.Equal(t, s1, s2.prev)
	require.Nil(t, s2.next)

	c.attachTail(s3)
	require.Equal(t, s3, c.tail)
	require.Equal(t, s3, s2.next)
	require.Equal(t, s2, s3.prev)

	// Unlink the middle element.
	c.unlink(s2)
	require.Equal(t, s1, c.head)
	require.Equal(t, s3, c.tail)
	require.Equal(t, s3, s1.next)
	require.Equal(t, s1, s3.prev)

	// Unlink head then tail, list empties out.
	c.unlink(s1)
	require.Equal(t, s3, c.head)
	require.Equal(t, s3, c.tail)

	c.unlink(s3)
	require.Nil(t, c.head)
	require.Nil(t, c.tail)
}
