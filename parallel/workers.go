package parallel

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Workers returns the default level of parallelism: the number of logical
// cores reported by the CPU, falling back to the Go runtime's count.
func Workers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
