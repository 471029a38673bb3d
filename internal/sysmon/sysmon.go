// Package sysmon samples host and process resource usage for the live
// charts of the terminal calculator.
package sysmon

import (
	"os"

	"fortio.org/safecast"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent     float64 // host, 0.0 .. 100.0
	MemPercent     float64 // host, 0.0 .. 100.0
	ProcCPUPercent float64 // this process, may exceed 100 on several cores
	ProcRSS        uint64  // resident set of this process, in bytes
}

// Sampler collects Stats. CPU figures are deltas since the previous call, so
// the first sample of a Sampler reads zero CPU.
type Sampler struct {
	proc *process.Process
}

// NewSampler creates a sampler for the host and the current process. When
// the process cannot be inspected only host figures are reported.
func NewSampler() *Sampler {
	s := &Sampler{}
	pid, err := safecast.Conv[int32](os.Getpid())
	if err != nil {
		return s
	}
	if p, err := process.NewProcess(pid); err == nil {
		s.proc = p
	}
	return s
}

// Sample returns the current snapshot. Fields that cannot be read are left
// at zero.
func (s *Sampler) Sample() Stats {
	var st Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		st.MemPercent = vmem.UsedPercent
	}
	if s.proc == nil {
		return st
	}
	if pct, err := s.proc.Percent(0); err == nil {
		st.ProcCPUPercent = pct
	}
	if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
		st.ProcRSS = mi.RSS
	}
	return st
}
