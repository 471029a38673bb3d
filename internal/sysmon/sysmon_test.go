package sysmon

import "testing"

func TestSampler_ReturnsValidRanges(t *testing.T) {
	s := NewSampler().Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.ProcCPUPercent < 0 {
		t.Errorf("ProcCPUPercent negative: %f", s.ProcCPUPercent)
	}
}

func TestSampler_ReadsOwnProcess(t *testing.T) {
	sampler := NewSampler()
	if sampler.proc == nil {
		t.Skip("process inspection unavailable")
	}
	if s := sampler.Sample(); s.ProcRSS == 0 {
		t.Error("expected non-zero resident set for the running test binary")
	}
}

func TestSampler_HostMemoryNonZero(t *testing.T) {
	if s := NewSampler().Sample(); s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}
