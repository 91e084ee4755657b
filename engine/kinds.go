package engine

import "fmt"

// DefaultThreshold is the operation count above which Auto goes
// multi-threaded.
const DefaultThreshold = 1024

// Mode selects how a task is distributed.
type Mode int

const (
	// Auto runs multi-threaded when the count exceeds the threshold.
	Auto Mode = iota
	// SingleThread runs on the calling goroutine.
	SingleThread
	// MultiThread splits the work across the pool.
	MultiThread
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "auto"
	case SingleThread:
		return "single"
	case MultiThread:
		return "multi"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DataKind is the container family of a task's operands.
type DataKind int

const (
	VectorData DataKind = iota
	TensorData
)

func (d DataKind) String() string {
	if d == TensorData {
		return "tensor"
	}
	return "vector"
}

// OpKind is the shape of the operation.
type OpKind int

const (
	// ElementWise computes out[i] = f(a[i], b[i]).
	ElementWise OpKind = iota
	// ScalarBroadcast computes out[i] = f(a[i], s).
	ScalarBroadcast
	// Reduce folds a with f starting from the seed.
	Reduce
	// Map computes out[i] = f(a[i]).
	Map
	// MapWithArg computes out[i] = f(a[i], arg).
	MapWithArg
	// Dot accumulates f(a[i], b[i]) onto the seed with a second function.
	Dot
)

func (k OpKind) String() string {
	switch k {
	case ElementWise:
		return "element-wise"
	case ScalarBroadcast:
		return "scalar-broadcast"
	case Reduce:
		return "reduce"
	case Map:
		return "map"
	case MapWithArg:
		return "map-with-arg"
	case Dot:
		return "dot"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Kernel names a primitive the engine can run through batched kernels. A
// function tagged with a Kernel must compute exactly that primitive.
type Kernel int

const (
	KernelNone Kernel = iota
	KernelAdd
	KernelSub
	KernelMul
	KernelDiv
	KernelAbs
)

func (k Kernel) String() string {
	switch k {
	case KernelNone:
		return "none"
	case KernelAdd:
		return "add"
	case KernelSub:
		return "sub"
	case KernelMul:
		return "mul"
	case KernelDiv:
		return "div"
	case KernelAbs:
		return "abs"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}
