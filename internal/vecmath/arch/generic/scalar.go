package generic

import "math"

// AddScalar32 computes dst[i] = src[i] + s.
func AddScalar32(dst, src []float32, s float32) {
	checkLen2(dst, src)
	for i := range dst {
		dst[i] = src[i] + s
	}
}

// SubScalar32 computes dst[i] = src[i] - s.
func SubScalar32(dst, src []float32, s float32) {
	checkLen2(dst, src)
	for i := range dst {
		dst[i] = src[i] - s
	}
}

// MulScalar32 computes dst[i] = src[i] * s.
func MulScalar32(dst, src []float32, s float32) {
	checkLen2(dst, src)
	for i := range dst {
		dst[i] = src[i] * s
	}
}

// DivScalar32 computes dst[i] = src[i] / s.
func DivScalar32(dst, src []float32, s float32) {
	checkLen2(dst, src)
	for i := range dst {
		dst[i] = src[i] / s
	}
}

// Abs32 computes dst[i] = |src[i]| by clearing the sign bit.
func Abs32(dst, src []float32) {
	checkLen2(dst, src)
	for i := range dst {
		dst[i] = math.Float32frombits(math.Float32bits(src[i]) &^ (1 << 31))
	}
}

func checkLen2(dst, src []float32) {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}
}
