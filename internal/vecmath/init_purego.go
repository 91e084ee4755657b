//go:build purego

package vecmath

import (
	// Generic implementations only
	_ "github.com/cwbudde/algo-tensor/internal/vecmath/arch/generic"
)
