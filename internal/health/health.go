package health

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostSnapshot describes the machine the relay runs on. Fields that
// cannot be collected are left at their zero value.
type HostSnapshot struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	UptimeSec     uint64  `json:"uptime_sec"`
	CPUCount      int     `json:"cpu_count"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryTotal   uint64  `json:"memory_total"`
	MemoryUsed    uint64  `json:"memory_used"`
	MemoryPercent float64 `json:"memory_percent"`
	LoadAverage   float64 `json:"load_average"`
}

// Snapshot collects host metrics best-effort.
func Snapshot() HostSnapshot {
	var snap HostSnapshot

	if h, err := host.Info(); err == nil {
		snap.Hostname = h.Hostname
		snap.OS = h.OS
		snap.UptimeSec = h.Uptime
	}

	if c, err := cpu.Counts(true); err == nil {
		snap.CPUCount = c
	}

	if p, err := cpu.Percent(0, false); err == nil && len(p) > 0 {
		snap.CPUPercent = p[0]
	}

	if v, err := mem.VirtualMemory(); err == nil {
		snap.MemoryTotal = v.Total
		snap.MemoryUsed = v.Used
		snap.MemoryPercent = v.UsedPercent
	}

	if l, err := load.Avg(); err == nil {
		snap.LoadAverage = l.Load1
	}

	return snap
}
