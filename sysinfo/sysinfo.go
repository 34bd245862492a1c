// Package sysinfo captures the machine identity a benchmark result is tagged
// with. Capture runs once at suite start and the value is threaded through
// explicitly; nothing reads it via ambient globals.
package sysinfo

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const unknown = "Unknown"

// Info describes the hardware and OS a suite ran on.
type Info struct {
	CPUBrand      string `json:"cpu_brand"`
	PhysicalCores int    `json:"cpu_physical_cores"`
	LogicalCores  int    `json:"cpu_logical_cores"`
	TotalMemoryMB uint64 `json:"total_memory_mb"`
	OSName        string `json:"os_name"`
	OSVersion     string `json:"os_version"`
	Hostname      string `json:"hostname"`
}

// Capture collects system information best-effort; fields that cannot be
// determined fall back to "Unknown"/zero rather than failing the suite.
func Capture() Info {
	info := Info{
		CPUBrand:  unknown,
		OSName:    unknown,
		OSVersion: unknown,
		Hostname:  unknown,
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUBrand = cpus[0].ModelName
	}
	if physical, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = physical
	}
	if logical, err := cpu.Counts(true); err == nil {
		info.LogicalCores = logical
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemoryMB = vm.Total / (1024 * 1024)
	}
	if h, err := host.Info(); err == nil {
		info.OSName = h.Platform
		info.OSVersion = h.PlatformVersion
		info.Hostname = h.Hostname
	}
	return info
}
