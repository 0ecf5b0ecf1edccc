package slobos

// AllocatorStats is a read-only snapshot of allocator activity. It never
// gates control flow and costs nothing when Stats is never called.
//
// Grounded on standardbeagle-lci's AllocatorStats struct. Unlike that
// example, the counters here are plain fields bumped in place rather than
// swapped through an atomic.Value: Alloc and Free are hot paths (SPEC_FULL.md
// §B.2 requires them allocation-free), and the Allocator contract is
// already explicitly single-threaded (spec.md §5), so the swap-and-replace
// pattern would buy nothing but a heap allocation per call.
type AllocatorStats struct {
	SlabsMapped  int64
	Allocations  int64
	Frees        int64
	InvalidFrees int64
}

func (a *Allocator) updateStats(update func(*AllocatorStats)) {
	update(&a.stats)
}

// Stats returns a snapshot of the allocator's activity counters.
func (a *Allocator) Stats() AllocatorStats {
	return a.stats
}
