// Package vecmath selects the kernel set used for the engine's known
// element-wise operations.
//
// Kernel packages under arch/ register with registry.Global. Selected picks
// the best entry for the running CPU once and fills any operation it lacks
// from the next compatible entry, so every field of the result is non-nil.
package vecmath

import (
	"sync"

	"github.com/cwbudde/algo-tensor/internal/cpu"
	"github.com/cwbudde/algo-tensor/internal/vecmath/registry"
)

var (
	selected     registry.OpEntry
	selectedOnce sync.Once
	selectedMu   sync.Mutex
)

func initSelected() {
	selected = resolve(cpu.DetectFeatures())
}

// resolve merges all compatible entries, best first.
func resolve(features cpu.Features) registry.OpEntry {
	entries := registry.Global.LookupAll(features)
	if len(entries) == 0 {
		panic("vecmath: no kernel implementation registered")
	}

	out := entries[0]
	for _, e := range entries[1:] {
		if out.Add32 == nil {
			out.Add32 = e.Add32
		}
		if out.Sub32 == nil {
			out.Sub32 = e.Sub32
		}
		if out.Mul32 == nil {
			out.Mul32 = e.Mul32
		}
		if out.Div32 == nil {
			out.Div32 = e.Div32
		}
		if out.AddScalar32 == nil {
			out.AddScalar32 = e.AddScalar32
		}
		if out.SubScalar32 == nil {
			out.SubScalar32 = e.SubScalar32
		}
		if out.MulScalar32 == nil {
			out.MulScalar32 = e.MulScalar32
		}
		if out.DivScalar32 == nil {
			out.DivScalar32 = e.DivScalar32
		}
		if out.Abs32 == nil {
			out.Abs32 = e.Abs32
		}
		if out.Mul64 == nil {
			out.Mul64 = e.Mul64
		}
	}
	if !complete(&out) {
		panic("vecmath: selected implementation missing operations")
	}
	return out
}

func complete(e *registry.OpEntry) bool {
	return e.Add32 != nil && e.Sub32 != nil && e.Mul32 != nil && e.Div32 != nil &&
		e.AddScalar32 != nil && e.SubScalar32 != nil && e.MulScalar32 != nil && e.DivScalar32 != nil &&
		e.Abs32 != nil && e.Mul64 != nil
}

// Selected returns the kernel set for the running CPU.
func Selected() registry.OpEntry {
	selectedMu.Lock()
	defer selectedMu.Unlock()
	selectedOnce.Do(initSelected)
	return selected
}

// For returns the kernel set matching features without touching the cache.
// It lets callers pin generic kernels (ForceGeneric) for comparison.
func For(features cpu.Features) registry.OpEntry {
	return resolve(features)
}

// resetForTesting drops the cached selection so the next Selected call
// re-reads cpu features.
func resetForTesting() {
	selectedMu.Lock()
	defer selectedMu.Unlock()
	selectedOnce = sync.Once{}
	selected = registry.OpEntry{}
}
