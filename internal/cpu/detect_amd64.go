//go:build amd64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl maps CPUID onto the levels the kernels dispatch on.
// x/sys/cpu already clears the AVX flags when the OS does not save the wide
// registers. Each level also requires the one below it.
func detectFeaturesImpl() Features {
	x := cpu.X86
	f := Features{Architecture: runtime.GOARCH, HasSSE2: x.HasSSE2}
	f.HasAVX = f.HasSSE2 && x.HasAVX
	f.HasAVX2 = f.HasAVX && x.HasAVX2
	f.HasAVX512 = f.HasAVX2 && x.HasAVX512F && x.HasAVX512VL
	return f
}
