// internal/sysinfo/sysinfo.go
// Package sysinfo captures a best-effort snapshot of the benchmarking machine
// so saved result documents identify the hardware they were produced on.
package sysinfo

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot describes the machine a benchmark ran on.
type Snapshot struct {
	Hostname         string    `json:"hostname,omitempty"`
	OS               string    `json:"os,omitempty"`
	Platform         string    `json:"platform,omitempty"`
	KernelArch       string    `json:"kernelArch,omitempty"`
	CPUModel         string    `json:"cpuModel,omitempty"`
	PhysicalCores    int       `json:"physicalCores,omitempty"`
	LogicalCores     int       `json:"logicalCores,omitempty"`
	TotalMemoryBytes uint64    `json:"totalMemoryBytes,omitempty"`
	CapturedAtUTC    time.Time `json:"capturedAtUtc"`
}

// Collect gathers the snapshot. Probes that fail leave their fields zeroed;
// a partially populated snapshot is still useful in the result document.
func Collect() Snapshot {
	snapshot := Snapshot{CapturedAtUTC: time.Now().UTC()}

	if info, err := host.Info(); err == nil {
		snapshot.Hostname = info.Hostname
		snapshot.OS = info.OS
		snapshot.Platform = info.Platform
		snapshot.KernelArch = info.KernelArch
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		snapshot.CPUModel = infos[0].ModelName
	}
	if physical, err := cpu.Counts(false); err == nil {
		snapshot.PhysicalCores = physical
	}
	if logical, err := cpu.Counts(true); err == nil {
		snapshot.LogicalCores = logical
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snapshot.TotalMemoryBytes = vm.Total
	}

	return snapshot
}
