// Package logging wraps zerolog behind a small Logger interface so that the
// evaluator and its helpers can log structured fields without importing
// zerolog themselves.
package logging
