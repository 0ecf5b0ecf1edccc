package slobos

// sizeClass is the per-class doubly linked list of slabs that still have at
// least one free entry (spec.md §3 "Size class"). A slab is a member of
// this list iff its freeHead != freeListEnd (spec.md invariant).
type sizeClass struct {
	head  *slabHeader
	tail  *slabHeader
	alloc *Allocator
}

// linkFresh attaches a newly constructed slab as the sole member of the
// list (spec.md §4.2 step 5).
func (c *sizeClass) linkFresh(s *slabHeader) {
	s.next = nil
	s.prev = nil
	c.head = s
	c.tail = s
}

// unlink detaches s from the list, reseating head/tail as needed
// (spec.md §4.3 step 5).
func (c *sizeClass) unlink(s *slabHeader) {
	if s.next != nil {
		s.next.prev = s.prev
	}
	if s.prev != nil {
		s.prev.next = s.next
	}
	if c.tail == s {
		c.tail = s.prev
	}
	if c.head == s {
		c.head = s.next
	}
	s.next = nil
	s.prev = nil
}

// attachTail re-attaches a previously detached (full) slab at the tail of
// the list (spec.md §4.4 step 6, design note #4): the newly attached
// slab's prev becomes the old tail, the old tail's next becomes the newly
// attached slab, and the newly attached slab's next stays nil.
func (c *sizeClass) attachTail(s *slabHeader) {
	s.next = nil
	s.prev = c.tail
	if c.tail != nil {
		c.tail.next = s
	}
	if c.head == nil {
		c.head = s
	}
	c.tail = s
}
