// Package batch8 provides float32 kernels that work in eight-element
// batches through fixed-size array views, which lets the compiler drop
// bounds checks and keep a batch in registers. Lanes is 8, matching one
// AVX2 register; there is no hand-written assembly.
//
// The float64 multiply delegates to github.com/cwbudde/algo-vecmath, which
// carries its own SIMD dispatch.
package batch8

// Lanes is the batch width of every kernel in this package.
const Lanes = 8
