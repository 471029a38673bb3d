// Package orchestration evaluates batches of expressions concurrently and
// reports their results. It decouples business logic from presentation via
// the ProgressReporter, ResultPresenter and ErrorHandler interfaces.
package orchestration
