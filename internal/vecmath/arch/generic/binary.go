package generic

// Add32 computes dst[i] = a[i] + b[i]. Panics if lengths differ.
func Add32(dst, a, b []float32) {
	checkLen3(dst, a, b)
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

// Sub32 computes dst[i] = a[i] - b[i].
func Sub32(dst, a, b []float32) {
	checkLen3(dst, a, b)
	for i := range dst {
		dst[i] = a[i] - b[i]
	}
}

// Mul32 computes dst[i] = a[i] * b[i].
func Mul32(dst, a, b []float32) {
	checkLen3(dst, a, b)
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// Div32 computes dst[i] = a[i] / b[i].
func Div32(dst, a, b []float32) {
	checkLen3(dst, a, b)
	for i := range dst {
		dst[i] = a[i] / b[i]
	}
}

// Mul64 computes dst[i] = a[i] * b[i] on float64.
func Mul64(dst, a, b []float64) {
	if len(a) != len(b) || len(dst) != len(a) {
		panic("vecmath: slice length mismatch")
	}
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

func checkLen3(dst, a, b []float32) {
	if len(a) != len(b) || len(dst) != len(a) {
		panic("vecmath: slice length mismatch")
	}
}
