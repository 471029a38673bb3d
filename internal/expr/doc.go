// Package expr parses and evaluates integer expressions over bigint values.
// An expression is parsed once into an Expr and may be evaluated many times,
// concurrently, against different variable environments. Every evaluation
// owns its intermediate values and releases them before returning.
//
// EvalBig evaluates the same tree with math/big under identical semantics
// (floor division, divisor-signed modulo, half-up literal rounding) and
// serves as the reference for result verification.
package expr
