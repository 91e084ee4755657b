// Package arena provides the region allocators that own every array payload
// and index table in the tensor engine.
//
// An Arena is a chain of fixed-capacity byte blocks with a bump cursor per
// block. Alloc hands out sub-slices first-fit across the chain and appends a
// new block when none has room. Nothing is freed individually: Reset rewinds
// every cursor (all earlier slices become logically invalid) and Free drops
// the chain.
//
// A StaticArena has the same contract but carves its blocks out of a
// caller-supplied Region instead of the Go heap, tracking block occupancy in
// a side table.
//
// Neither type is safe for concurrent use. Engine tasks pre-allocate their
// outputs on the submitting goroutine; workers only write into existing,
// disjoint sub-slices.
package arena
