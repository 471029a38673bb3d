package bigint

import "sync/atomic"

const (
	// Radix is the base of one magnitude segment.
	Radix = 1_000_000_000

	// SegmentDigits is the number of decimal digits one segment holds.
	SegmentDigits = 9

	// DefaultMulThreshold is the segment count below which multiplication
	// stays quadratic.
	DefaultMulThreshold = 100

	// initCapacity is the segment capacity of a fresh Int.
	initCapacity = 4

	// doublePrecision is the number of significant decimal digits a float64
	// reliably carries.
	doublePrecision = 16

	// maxCorrectionSteps bounds the quotient fix-up after the Newton estimate.
	maxCorrectionSteps = 20

	// maxFloatDigits is the largest decimal length Float64 converts.
	maxFloatDigits = 308
)

// pow10tab[i] is 10^i for every digit offset inside one segment.
var pow10tab = [SegmentDigits + 1]uint64{
	1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
}

// zeroSegs stands in for the magnitude of an Int that has never been
// written. It is read-only.
var zeroSegs = []uint32{0}

// Int is a signed arbitrary-precision integer.
//
// The zero value is 0 and ready to use. Operations mutate the receiver and
// return it for chaining. Call Release to hand the buffer back to the pool
// once an Int is no longer needed.
type Int struct {
	sign     int
	mag      []uint32 // little-endian base-10^9 segments; len is the length, cap the capacity
	released bool
}

// New returns an Int set to 0 with the initial capacity.
func New() *Int {
	z := &Int{mag: acquireSegmentsUnsafe(initCapacity)[:1]}
	z.mag[0] = 0
	return z
}

// NewInt64 returns an Int set to v.
func NewInt64(v int64) *Int {
	return New().SetInt64(v)
}

// Release returns the magnitude buffer to the pool. z must not be used
// afterwards; doing so panics.
func (z *Int) Release() {
	if z.released {
		if debugEnabled() {
			bug("double release")
		}
		return
	}
	releaseSegments(z.mag)
	z.mag = nil
	z.sign = 0
	z.released = true
}

// Len returns the number of segments in the magnitude.
func (x *Int) Len() int {
	return len(x.segs())
}

// Cap returns the segment capacity of the magnitude buffer.
func (x *Int) Cap() int {
	x.segs()
	return cap(x.mag)
}

// segs returns the magnitude of x. An Int that was never written reads as a
// single zero segment.
func (x *Int) segs() []uint32 {
	if x.released {
		panic(errReleased)
	}
	if len(x.mag) == 0 {
		return zeroSegs
	}
	return x.mag
}

// ensureCapacity grows the buffer of z to hold at least min segments,
// preserving the current value. Growth is to at least 2*min+2 so repeated
// small growth amortizes.
func (z *Int) ensureCapacity(min int) {
	if z.released {
		panic(errReleased)
	}
	if z.mag != nil && min <= cap(z.mag) {
		return
	}
	buf := acquireSegmentsUnsafe(2*min + 2)
	n := copy(buf, z.mag)
	if n == 0 {
		buf[0] = 0
		n = 1
	}
	z.replace(buf[:n])
}

// resize sets the length of z to n segments, zero-filling any new ones.
func (z *Int) resize(n int) {
	z.ensureCapacity(n)
	old := len(z.mag)
	z.mag = z.mag[:n]
	if n > old {
		clear(z.mag[old:])
	}
}

// replace swaps in buf as the magnitude of z and releases the old buffer.
func (z *Int) replace(buf []uint32) {
	releaseSegments(z.mag)
	z.mag = buf
}

// setSegments sets z to the non-negative value whose segments are m.
func (z *Int) setSegments(m []uint32) *Int {
	z.ensureCapacity(len(m))
	z.mag = z.mag[:len(m)]
	copy(z.mag, m)
	z.sign = 1
	z.pack()
	return z
}

// pack normalizes z after a mutation: it trims most-significant zero
// segments, shrinks a buffer that is less than a quarter used, and forces a
// zero sign onto a zero magnitude.
func (z *Int) pack() {
	n := len(z.mag)
	for n > 1 && z.mag[n-1] == 0 {
		n--
	}
	z.mag = z.mag[:n]
	if n*4 < cap(z.mag) && segmentClassCap(2*n) < cap(z.mag) {
		buf := acquireSegmentsUnsafe(2 * n)
		copy(buf, z.mag)
		z.replace(buf[:n])
	}
	if n == 1 && z.mag[0] == 0 {
		z.sign = 0
	}
	if debugEnabled() {
		z.verify()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Debug Checks
// ─────────────────────────────────────────────────────────────────────────────

var debugChecks atomic.Bool

// SetDebug turns internal consistency checks on or off. With checks on,
// every normalization verifies the representation, and splits and divisions
// verify their postconditions. A failed check panics with a "bigint: BUG:"
// message.
func SetDebug(on bool) {
	debugChecks.Store(on)
}

func debugEnabled() bool {
	return debugChecks.Load()
}

// verify panics if z breaks a representation invariant.
func (z *Int) verify() {
	m := z.mag
	switch {
	case len(m) == 0:
		bug("empty magnitude")
	case len(m) > cap(m):
		bug("length %d exceeds capacity %d", len(m), cap(m))
	case len(m) > 1 && m[len(m)-1] == 0:
		bug("most significant segment is zero (length %d)", len(m))
	case z.sign < -1 || z.sign > 1:
		bug("sign %d out of range", z.sign)
	}
	zero := len(m) == 1 && m[0] == 0
	if zero != (z.sign == 0) {
		bug("sign %d disagrees with magnitude (zero=%t)", z.sign, zero)
	}
	for i, s := range m {
		if s >= Radix {
			bug("segment %d holds %d", i, s)
		}
	}
}
