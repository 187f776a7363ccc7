package array

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features reports the host CPU capabilities relevant to the element-wise
// kernels.
type Features struct {
	HasAVX2      bool
	HasAVX512    bool
	HasSSE2      bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasSSE2:      cpu.X86.HasSSE2,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// wideVectors reports whether the unrolled kernel variants are worthwhile.
func (f Features) wideVectors() bool {
	return f.HasAVX2 || f.HasAVX512 || f.HasNEON
}

var hostFeatures = DetectFeatures()
