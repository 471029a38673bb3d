// This file provides size-classed pooling for magnitude buffers.

package bigint

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// ─────────────────────────────────────────────────────────────────────────────
// Segment Pools
// ─────────────────────────────────────────────────────────────────────────────

// segmentPools pools []uint32 magnitude buffers by size class. Classes are
// powers of 4 starting at 4 segments, which is also the capacity of a fresh
// Int, so New never allocates outside the pools.
var segmentPools = [...]sync.Pool{
	{New: func() any { return make([]uint32, 4) }},
	{New: func() any { return make([]uint32, 16) }},
	{New: func() any { return make([]uint32, 64) }},
	{New: func() any { return make([]uint32, 256) }},
	{New: func() any { return make([]uint32, 1024) }},
	{New: func() any { return make([]uint32, 4096) }},
	{New: func() any { return make([]uint32, 16384) }},
	{New: func() any { return make([]uint32, 65536) }},
	{New: func() any { return make([]uint32, 262144) }},
	{New: func() any { return make([]uint32, 1048576) }}, // ~9.4M decimal digits
	{New: func() any { return make([]uint32, 4194304) }}, // ~37.7M decimal digits
}

// segmentClassSizes defines the size classes for segmentPools.
var segmentClassSizes = [...]int{4, 16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304}

// getSegmentPoolIndex returns the pool index for a buffer of size segments,
// or -1 if the size is too large for pooling.
//
// Index i holds buffers of 4^(i+1) segments, so the index follows directly
// from the bit length of size-1.
func getSegmentPoolIndex(size int) int {
	if size <= segmentClassSizes[0] {
		return 0
	}
	if size > segmentClassSizes[len(segmentClassSizes)-1] {
		return -1
	}
	return (bits.Len(uint(size-1)) - 1) / 2
}

// segmentClassCap returns the capacity a buffer of size segments will have
// once acquired.
func segmentClassCap(size int) int {
	idx := getSegmentPoolIndex(size)
	if idx < 0 {
		return size
	}
	return segmentClassSizes[idx]
}

// acquireSegments returns a zeroed buffer of exactly size segments. Its
// capacity is the size class, which may be larger.
func acquireSegments(size int) []uint32 {
	s := acquireSegmentsUnsafe(size)
	clear(s)
	return s
}

// acquireSegmentsUnsafe is acquireSegments without clearing. Use it only when
// every element will be overwritten before it is read.
func acquireSegmentsUnsafe(size int) []uint32 {
	notifyAlloc(1)
	idx := getSegmentPoolIndex(size)
	if idx < 0 {
		return make([]uint32, size)
	}
	s := segmentPools[idx].Get().([]uint32)
	return s[:size]
}

// releaseSegments returns a buffer obtained from acquireSegments. Buffers
// whose capacity is not a size class were allocated directly and are left to
// the garbage collector. Safe to call with nil.
func releaseSegments(s []uint32) {
	if s == nil {
		return
	}
	notifyAlloc(-1)
	c := cap(s)
	if idx := getSegmentPoolIndex(c); idx >= 0 && segmentClassSizes[idx] == c {
		segmentPools[idx].Put(s[:c])
	}
}

// PreWarm seeds the pool serving values of the given decimal digit count
// with count ready buffers. It is a hint for callers about to run a burst of
// operations on numbers of a known size.
func PreWarm(digits, count int) {
	idx := getSegmentPoolIndex(2*segmentsForDigits(digits) + 2)
	if idx < 0 {
		return
	}
	for i := 0; i < count; i++ {
		segmentPools[idx].Put(make([]uint32, segmentClassSizes[idx]))
	}
}

func segmentsForDigits(digits int) int {
	if digits <= 0 {
		return 1
	}
	return (digits + SegmentDigits - 1) / SegmentDigits
}

// ─────────────────────────────────────────────────────────────────────────────
// Allocation Accounting
// ─────────────────────────────────────────────────────────────────────────────

// AllocHook observes magnitude buffer traffic: +1 when a buffer is handed
// out and -1 when one is given back. The running sum is the number of live
// buffers, which lets tests prove that temporaries are released.
type AllocHook func(delta int)

var allocHook atomic.Pointer[AllocHook]

// SetAllocHook installs h, or removes the current hook when h is nil. The
// hook is called synchronously from every goroutine that allocates.
func SetAllocHook(h AllocHook) {
	if h == nil {
		allocHook.Store(nil)
		return
	}
	allocHook.Store(&h)
}

func notifyAlloc(delta int) {
	if h := allocHook.Load(); h != nil {
		(*h)(delta)
	}
}
