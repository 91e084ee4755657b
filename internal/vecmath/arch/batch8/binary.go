package batch8

import vecmath "github.com/cwbudde/algo-vecmath"

// Add32 computes dst[i] = a[i] + b[i].
func Add32(dst, a, b []float32) {
	n := checkLen3(dst, a, b)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(a[i : i+Lanes])
		y := (*[Lanes]float32)(b[i : i+Lanes])
		for k := range d {
			d[k] = x[k] + y[k]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

// Sub32 computes dst[i] = a[i] - b[i].
func Sub32(dst, a, b []float32) {
	n := checkLen3(dst, a, b)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(a[i : i+Lanes])
		y := (*[Lanes]float32)(b[i : i+Lanes])
		for k := range d {
			d[k] = x[k] - y[k]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

// Mul32 computes dst[i] = a[i] * b[i].
func Mul32(dst, a, b []float32) {
	n := checkLen3(dst, a, b)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(a[i : i+Lanes])
		y := (*[Lanes]float32)(b[i : i+Lanes])
		for k := range d {
			d[k] = x[k] * y[k]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] * b[i]
	}
}

// Div32 computes dst[i] = a[i] / b[i].
func Div32(dst, a, b []float32) {
	n := checkLen3(dst, a, b)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := (*[Lanes]float32)(dst[i : i+Lanes])
		x := (*[Lanes]float32)(a[i : i+Lanes])
		y := (*[Lanes]float32)(b[i : i+Lanes])
		for k := range d {
			d[k] = x[k] / y[k]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] / b[i]
	}
}

// Mul64 computes dst[i] = a[i] * b[i] with algo-vecmath.
func Mul64(dst, a, b []float64) {
	if len(a) != len(b) || len(dst) != len(a) {
		panic("vecmath: slice length mismatch")
	}
	vecmath.MulBlock(dst, a, b)
}

func checkLen3(dst, a, b []float32) int {
	if len(a) != len(b) || len(dst) != len(a) {
		panic("vecmath: slice length mismatch")
	}
	return len(dst)
}
