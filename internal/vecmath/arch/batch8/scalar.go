package batch8

import "math"

const signMask = 1 << 31

// AddScalar32 computes dst[i] = src[i] + s.
func AddScalar32(dst, src []float32, s float32) {
	n := checkLen2(dst, src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(src[i : i+Lanes])
		for k := range d {
			d[k] = x[k] + s
		}
	}
	for ; i < n; i++ {
		dst[i] = src[i] + s
	}
}

// SubScalar32 computes dst[i] = src[i] - s.
func SubScalar32(dst, src []float32, s float32) {
	n := checkLen2(dst, src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(src[i : i+Lanes])
		for k := range d {
			d[k] = x[k] - s
		}
	}
	for ; i < n; i++ {
		dst[i] = src[i] - s
	}
}

// MulScalar32 computes dst[i] = src[i] * s.
func MulScalar32(dst, src []float32, s float32) {
	n := checkLen2(dst, src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(src[i : i+Lanes])
		for k := range d {
			d[k] = x[k] * s
		}
	}
	for ; i < n; i++ {
		dst[i] = src[i] * s
	}
}

// DivScalar32 computes dst[i] = src[i] / s.
func DivScalar32(dst, src []float32, s float32) {
	n := checkLen2(dst, src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(src[i : i+Lanes])
		for k := range d {
			d[k] = x[k] / s
		}
	}
	for ; i < n; i++ {
		dst[i] = src[i] / s
	}
}

// Abs32 computes dst[i] = |src[i]|.
func Abs32(dst, src []float32) {
	n := checkLen2(dst, src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(src[i : i+Lanes])
		for k := range d {
			d[k] = math.Float32frombits(math.Float32bits(x[k]) &^ signMask)
		}
	}
	for ; i < n; i++ {
		dst[i] = math.Float32frombits(math.Float32bits(src[i]) &^ signMask)
	}
}

func checkLen2(dst, src []float32) int {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}
	return len(dst)
}
