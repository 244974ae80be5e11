// Package sampler provides normal deviates for drawing uncertain
// reproduction numbers.
//
// A [Normal] owns exactly one generator for its lifetime. It is seeded once,
// on first use, from the operating system's entropy source unless it was
// built with [NewSeeded]. A Normal is not safe for concurrent use; give each
// worker its own instance (see [Factory]) or wrap a shared one with
// [NewSynchronized].
package sampler
