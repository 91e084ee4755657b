// Package registry holds the kernel variants the tensor engine can use for
// its known element-wise operations.
//
// Kernel packages register an OpEntry from init(). The vecmath package asks
// for the highest-priority entry the current CPU supports and caches it.
package registry

import (
	"sort"
	"sync"

	"github.com/cwbudde/algo-tensor/internal/cpu"
)

// Binary32 computes dst[i] = a[i] op b[i]. All slices have equal length.
type Binary32 func(dst, a, b []float32)

// Scalar32 computes dst[i] = src[i] op s.
type Scalar32 func(dst, src []float32, s float32)

// Unary32 computes dst[i] = f(src[i]).
type Unary32 func(dst, src []float32)

// Binary64 computes dst[i] = a[i] op b[i] on float64.
type Binary64 func(dst, a, b []float64)

// OpEntry is one kernel variant. A nil field means the variant does not
// provide that operation; Lookup callers fall back to a lower entry.
type OpEntry struct {
	// Name identifies the variant ("generic", "batch8").
	Name string

	// SIMDLevel is the instruction set the variant needs.
	SIMDLevel cpu.SIMDLevel

	// Priority orders compatible variants, higher first.
	Priority int

	// Lanes is the batch width. Callers hand kernels a length that is a
	// multiple of Lanes and process the tail themselves.
	Lanes int

	Add32 Binary32
	Sub32 Binary32
	Mul32 Binary32
	Div32 Binary32

	AddScalar32 Scalar32
	SubScalar32 Scalar32
	MulScalar32 Scalar32
	DivScalar32 Scalar32

	Abs32 Unary32

	Mul64 Binary64
}

// OpRegistry stores registered variants.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the registry kernel packages register into.
var Global = &OpRegistry{}

// Register adds entry. Registration should finish before the first Lookup.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.Lanes <= 0 {
		entry.Lanes = 1
	}
	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority entry compatible with features, or nil
// if none is.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.ensureSorted()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}
	return nil
}

// LookupAll returns every compatible entry, best first.
func (r *OpRegistry) LookupAll(features cpu.Features) []OpEntry {
	r.ensureSorted()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []OpEntry
	for _, entry := range r.entries {
		if cpu.Supports(features, entry.SIMDLevel) {
			out = append(out, entry)
		}
	}
	return out
}

func (r *OpRegistry) ensureSorted() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sorted {
		return
	}
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Priority > r.entries[j].Priority
	})
	r.sorted = true
}

// ListEntries returns a copy of all entries in registration or priority
// order, whichever was last established.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all entries. Tests only.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
