package tensor

import "fmt"

// ElementType tags every scalar and container. The zero value is Invalid.
type ElementType uint8

const (
	// Invalid marks the sentinel Value and unsupported tags.
	Invalid ElementType = iota

	// F16 is a 16-bit brain float (bf16).
	F16

	// F32 is an IEEE-754 single.
	F32

	// F64 is an IEEE-754 double.
	F64
)

// Size returns the storage size in bytes, or 0 for an unsupported type.
func (t ElementType) Size() int {
	switch t {
	case F16:
		return 2
	case F32:
		return 4
	case F64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether t is one of F16, F32, F64.
func (t ElementType) Valid() bool {
	return t.Size() != 0
}

func (t ElementType) String() string {
	switch t {
	case F16:
		return "float16"
	case F32:
		return "float32"
	case F64:
		return "float64"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("ElementType(%d)", uint8(t))
	}
}

func checkType(t ElementType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return nil
}
