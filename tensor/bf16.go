package tensor

import (
	"math"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
)

// RoundBF16 converts x to bf16 with a single round-to-nearest-even step.
//
// The float64 is first narrowed to float32 with round-to-odd: an inexact
// result is moved toward zero and its low bit set. float32 keeps 16 more
// significand bits than bf16, so the second rounding cannot land on a false
// tie. NaNs stay NaN with the quiet bit set.
func RoundBF16(x float64) bfloat16.BFloat16 {
	f := float32(x)
	if float64(f) != x && !math.IsNaN(x) {
		bits := math.Float32bits(f)
		if math.Abs(float64(f)) > math.Abs(x) {
			bits--
		}
		f = math.Float32frombits(bits | 1)
	}
	return roundFloat32(f)
}

// roundFloat32 rounds the float32 bits to the upper half, nearest even.
func roundFloat32(f float32) bfloat16.BFloat16 {
	bits := math.Float32bits(f)
	if f != f {
		return bfloat16.BFloat16(bits>>16 | 0x0040)
	}
	bits += 0x7FFF + (bits>>16)&1
	return bfloat16.BFloat16(bits >> 16)
}
