package bench

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceMonitor samples the resource usage of the current process.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// NewResourceMonitor starts measuring from now. Sampling failures are
// reported as zero values rather than errors.
func NewResourceMonitor() *ResourceMonitor {
	rm := &ResourceMonitor{startTime: time.Now()}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return rm
	}
	rm.process = proc
	if times, err := proc.Times(); err == nil {
		rm.startCPUTime = times.Total()
	}
	return rm
}

// ResourceUsage is one sample.
type ResourceUsage struct {
	CPUPercent          float64
	LogicalCPUs         int
	MemoryRSS           uint64
	MemoryVMS           uint64
	HeapAlloc           uint64
	SystemMemoryPercent float64
	GoroutineCount      int
}

// Usage samples the process now. CPUPercent covers the time since the
// monitor was created.
func (rm *ResourceMonitor) Usage() ResourceUsage {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var usage ResourceUsage
	if rm.process != nil {
		if times, err := rm.process.Times(); err == nil {
			if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
				usage.CPUPercent = (times.Total() - rm.startCPUTime) / elapsed * 100
			}
		}
		if info, err := rm.process.MemoryInfo(); err == nil {
			usage.MemoryRSS = info.RSS
			usage.MemoryVMS = info.VMS
		}
	}
	if n, err := cpu.Counts(true); err == nil {
		usage.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vm.UsedPercent
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc
	usage.GoroutineCount = runtime.NumGoroutine()
	return usage
}
