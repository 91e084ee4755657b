//go:build !purego

package vecmath

import (
	// Scalar fallback
	_ "github.com/cwbudde/algo-tensor/internal/vecmath/arch/generic"

	// Eight-lane batches for amd64 (SSE2 baseline) and arm64 (NEON)
	_ "github.com/cwbudde/algo-tensor/internal/vecmath/arch/batch8"
)
