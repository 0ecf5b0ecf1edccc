// Package slobos implements a fixed-class slab allocator: requests are
// bucketed into power-of-two size classes and served from dedicated slabs
// subdivided into equally sized entries, each slab mapped on demand from an
// external page mapper. See SPEC_FULL.md for the full design.
package slobos

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/OBOS-dev/slobos/bits"
	"github.com/OBOS-dev/slobos/mapper"
)

// Allocator owns the class table, its configuration, and the mapper
// handle. The caller owns the Allocator value itself — a zero-value
// Allocator declared with `var a slobos.Allocator` and then initialized
// with Init satisfies the "caller allocates storage" contract of
// spec.md §3 without requiring a manually sized byte buffer.
//
// Allocator is explicitly single-threaded (spec.md §5): every exported
// method mutates shared fields without synchronization. Callers sharing
// an Allocator across goroutines must serialize access themselves.
type Allocator struct {
	classes     [maxClassCount]sizeClass
	classInfo   [maxClassCount]classInfo
	classCount  int
	slabBytes   uintptr
	headerBytes uintptr
	mapHandle   uintptr
	mapper      mapper.Mapper

	// Logger, if non-nil, receives Debug/Warn events for slab geometry,
	// slab construction/detach/reattach, and invalid pointer resolution.
	// The core never depends on it being set (spec.md §7: "no logging in
	// the core... must not make logging the contract").
	Logger *zap.SugaredLogger

	stats AllocatorStats
}

// StateSize returns the byte count an embedder needs if it wants to mirror
// the original C sizing contract (spec.md §6.1 "state size") — e.g. when
// placing an Allocator inside a pre-allocated arena of its own. Ordinary
// callers can ignore this and just declare a Go Allocator value.
func StateSize() uintptr {
	return unsafe.Sizeof(Allocator{})
}

// Init validates cfg, builds the class table, and wires m as the page
// mapper consulted on class underflow (spec.md §4.9).
//
// maxEntrySize must be a power of two >= 32. slabBytes, if zero, defaults
// to 4096; otherwise it must be a power of two, <= 256KiB, and strictly
// greater than maxEntrySize. handle is passed through verbatim to every
// Map/Unmap call.
func (a *Allocator) Init(cfg Config, handle uintptr, m mapper.Mapper) error {
	if a == nil {
		return ErrNilAllocator
	}
	if m == nil {
		return ErrNoMapper
	}

	maxEntrySize := uintptr(cfg.MaxEntrySize)
	if !bits.IsPow2(uint64(maxEntrySize)) || maxEntrySize < minEntrySize {
		return ErrMaxEntrySize
	}

	slabBytes := uintptr(cfg.SlabBytes)
	if slabBytes == 0 {
		slabBytes = defaultSlabBytes
	}
	if !bits.IsPow2(uint64(slabBytes)) || slabBytes > hardSizeCeiling || slabBytes <= maxEntrySize {
		return ErrSlabBytes
	}

	classCount := bits.Log2Floor(uint64(maxEntrySize)) - 5
	if classCount < 1 || classCount > maxClassCount {
		return fmt.Errorf("%w: maxEntrySize yields class_count=%d, must be in [1,%d]", ErrInvalidConfig, classCount, maxClassCount)
	}

	a.classCount = classCount
	a.slabBytes = slabBytes
	a.headerBytes = slabHeaderSize
	a.classInfo = buildClasses(classCount, slabBytes, slabHeaderSize)
	for i := 0; i < classCount; i++ {
		a.classes[i] = sizeClass{alloc: a}
	}
	a.stats = AllocatorStats{}

	if err := a.SetMapHandle(handle); err != nil {
		return err
	}
	a.mapper = m

	if a.Logger != nil {
		a.Logger.Debugw("allocator initialized",
			"maxEntrySize", maxEntrySize,
			"slabBytes", slabBytes,
			"classCount", classCount,
			"mapHandle", handle,
		)
	}
	return nil
}

// SetMapHandle re-points an already initialized allocator at a different
// map handle without touching its class tables (spec.md §6.1 "set map
// handle"; supplemented from original_source/src/slobos.c
// slobos_set_map_hnd).
func (a *Allocator) SetMapHandle(handle uintptr) error {
	if a == nil {
		return ErrNilAllocator
	}
	a.mapHandle = handle
	return nil
}
