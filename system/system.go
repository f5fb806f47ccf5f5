// eastercompany/dex-voice-service/system/system.go
package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// GetCPUUsage returns the current CPU usage as a percentage
func GetCPUUsage() (float64, error) {
	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("could not get CPU usage")
	}
	return percentages[0], nil
}

// GetMemoryUsage returns the current memory usage as a percentage
func GetMemoryUsage() (float64, error) {
	virtualMem, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return virtualMem.UsedPercent, nil
}

// Snapshot is a point-in-time view of host and process resources.
type Snapshot struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SysMB         float64 `json:"sys_mb"`
	GCRuns        uint32  `json:"gc_runs"`
}

// Collect gathers a Snapshot. Host figures that cannot be read are left at zero.
func Collect() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Snapshot{
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(m.Alloc) / 1024 / 1024,
		SysMB:       float64(m.Sys) / 1024 / 1024,
		GCRuns:      m.NumGC,
	}
	if cpuPct, err := GetCPUUsage(); err == nil {
		s.CPUPercent = cpuPct
	}
	if memPct, err := GetMemoryUsage(); err == nil {
		s.MemoryPercent = memPct
	}
	return s
}
