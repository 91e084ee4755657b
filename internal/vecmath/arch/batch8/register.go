package batch8

import (
	"github.com/cwbudde/algo-tensor/internal/cpu"
	"github.com/cwbudde/algo-tensor/internal/vecmath/registry"
)

// init registers the batched kernels once per architecture baseline. SSE2 is
// always present on amd64 and NEON on arm64, so one of the two entries wins
// over generic on those targets.
func init() {
	for _, level := range []cpu.SIMDLevel{cpu.SIMDSSE2, cpu.SIMDNEON} {
		registry.Global.Register(registry.OpEntry{
			Name:      "batch8",
			SIMDLevel: level,
			Priority:  10,
			Lanes:     Lanes,

			Add32: Add32,
			Sub32: Sub32,
			Mul32: Mul32,
			Div32: Div32,

			AddScalar32: AddScalar32,
			SubScalar32: SubScalar32,
			MulScalar32: MulScalar32,
			DivScalar32: DivScalar32,

			Abs32: Abs32,
			Mul64: Mul64,
		})
	}
}
