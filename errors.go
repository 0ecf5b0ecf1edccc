package slobos

import "errors"

// Sentinel errors returned by Init, SetMapHandle, and configuration
// loading. The hot allocation path (Alloc/Free/Realloc/GetSize) never
// returns an error value — it keeps the original nil/sentinel contract
// from spec.md §7.
var (
	ErrNilAllocator    = errors.New("slobos: allocator is nil")
	ErrInvalidConfig   = errors.New("slobos: invalid configuration")
	ErrMaxEntrySize    = errors.New("slobos: maxEntrySize must be a power of two >= 32")
	ErrSlabBytes       = errors.New("slobos: slabBytes must be a power of two, > maxEntrySize, and <= 256KiB")
	ErrNoMapper        = errors.New("slobos: no mapper configured")
	ErrUnknownProfile  = errors.New("slobos: unknown profile")
)
