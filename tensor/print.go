package tensor

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Print writes v to stdout.
func (v *Vector) Print() error {
	return v.Fprint(os.Stdout)
}

// Fprint writes a header line and one element per line.
func (v *Vector) Fprint(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Vector (size: %d, type: %s):\n", v.size, v.typ)
	for i := 0; i < v.size; i++ {
		fmt.Fprintf(bw, "  [%d]: %f\n", i, load(v.data, v.typ, i).Float64())
	}
	return bw.Flush()
}

// Print writes t to stdout.
func (t *Tensor) Print() error {
	return t.Fprint(os.Stdout)
}

// Fprint writes a header line and one element per line, in row-major
// order, each prefixed by its coordinates.
func (t *Tensor) Fprint(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "tensor (size: %d, type: %s, dimensions: %s):\n", t.size, t.typ, t.dims)

	coords := make([]uint32, t.Rank())
	for flat := 0; flat < t.size; flat++ {
		decompose(flat, t.dims.dims, coords)
		fmt.Fprintf(bw, "  %s: %f\n", formatUint32s(coords), load(t.data, t.typ, flat).Float64())
	}
	return bw.Flush()
}
