package generic

import (
	"github.com/cwbudde/algo-tensor/internal/cpu"
	"github.com/cwbudde/algo-tensor/internal/vecmath/registry"
)

// init registers the scalar-loop kernels. They are the fallback for every
// CPU and the only variant under the purego tag or ForceGeneric.
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Lanes:     1,

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
