// Package montecarlo estimates the distribution of epidemic peaks by
// repeated simulation over an uncertain reproduction number.
//
// Each trial draws R0 from N(R0Mean, R0Std), applies the control
// effectiveness, runs the discrete SIR map from the canonical initial state
// and records the peak infected count. The [Driver] then reports the mean
// and population standard deviation of the recorded peaks.
//
// # Concurrency
//
// With one worker (the default) every trial draws from the single sampler
// handed to [New]. With more workers, each worker owns the sampler its
// [sampler.Factory] builds for it, and trials are split into contiguous
// blocks so peaks[i] always belongs to trial i.
package montecarlo
