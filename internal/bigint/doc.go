// Package bigint implements signed arbitrary-precision integers stored as
// base-10^9 segment vectors.
//
// An Int keeps a sign in {-1, 0, +1} and a little-endian magnitude of
// segments, each holding nine decimal digits. Every operation mutates its
// receiver in place and leaves it normalized: no most-significant zero
// segment, and a zero sign exactly when the value is zero.
//
// Decimal text is the only external representation. SetString accepts
// signed integers, fractions and exponents (for example "-1.5e3") and rounds
// half-up to the nearest integer; String produces the canonical form without
// exponent.
//
// # Aliasing
//
// Operations define what happens when the receiver is also the argument:
//
//   - z.Add(z) doubles z.
//   - z.Sub(z) sets z to zero.
//   - z.Mul(z) squares z through a temporary copy.
//   - DivMod accepts q or r aliasing a or b, but q and r must be distinct.
//
// # Resource discipline
//
// Magnitude buffers come from size-classed pools. Release hands the buffer
// back; a released Int must not be used again. Temporaries created by the
// multi-step algorithms (split halves, Newton iterates, internal quotients)
// are released on every exit path. SetAllocHook lets tests observe buffer
// traffic and prove that nothing leaks.
//
// An Int is not safe for concurrent mutation. Distinct Ints share nothing
// except the multiplication threshold, which is read atomically.
package bigint
