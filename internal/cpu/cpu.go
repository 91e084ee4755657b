// Package cpu reports the processor capabilities the tensor engine uses to
// pick kernels and size its worker pool.
//
// Detection runs once, on the first call to DetectFeatures, and is cached.
// Tests can pin a feature set with SetForcedFeatures and undo it with
// ResetDetection.
package cpu

import (
	"runtime"
	"sync"
)

// SIMDLevel names an instruction set extension a kernel entry can require.
// Levels are not ordered across architectures (AVX2 and NEON are unrelated).
type SIMDLevel int

const (
	// SIMDNone runs on any CPU.
	SIMDNone SIMDLevel = iota

	// SIMDSSE2 is the x86-64 baseline.
	SIMDSSE2

	// SIMDAVX is x86-64 AVX.
	SIMDAVX

	// SIMDAVX2 is x86-64 AVX2 (eight float32 lanes per register).
	SIMDAVX2

	// SIMDAVX512 is x86-64 AVX-512F.
	SIMDAVX512

	// SIMDNEON is ARM Advanced SIMD.
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features describes the CPU as seen by kernel selection.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	// ForceGeneric restricts selection to SIMDNone entries.
	ForceGeneric bool

	// LogicalCPUs is the number of logical processors usable by this process.
	LogicalCPUs int

	// Architecture is runtime.GOARCH.
	Architecture string
}

var (
	detectedFeatures Features
	detectOnce       sync.Once
	detectMutex      sync.Mutex

	forcedFeatures *Features
	forcedMutex    sync.RWMutex
)

// DetectFeatures returns the features of the current system, or the forced
// set when one is installed. Safe for concurrent use.
func DetectFeatures() Features {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced
	}

	detectMutex.Lock()
	detectOnce.Do(func() {
		detectedFeatures = detectFeaturesImpl()
		detectedFeatures.LogicalCPUs = runtime.NumCPU()
	})
	features := detectedFeatures
	detectMutex.Unlock()

	return features
}

// LogicalCPUs returns the logical CPU count, never less than 1.
func LogicalCPUs() int {
	n := DetectFeatures().LogicalCPUs
	if n < 1 {
		return 1
	}
	return n
}

// HasAVX2 reports AVX2 support.
func HasAVX2() bool {
	return DetectFeatures().HasAVX2
}

// HasNEON reports ARM Advanced SIMD support.
func HasNEON() bool {
	return DetectFeatures().HasNEON
}

// SetForcedFeatures overrides detection. Intended for tests.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection drops forced features and the detection cache.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectMutex.Unlock()
}

// Supports reports whether features satisfy level.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDAVX:
		return features.HasAVX
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDAVX512:
		return features.HasAVX512
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
