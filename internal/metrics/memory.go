package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryCollector reads runtime memory statistics. It also implements
// prometheus.Collector so the same readings back the /metrics endpoint.
type MemoryCollector struct {
	heapAlloc   *prometheus.Desc
	heapObjects *prometheus.Desc
	totalAlloc  *prometheus.Desc
	gcCycles    *prometheus.Desc
}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		heapAlloc: prometheus.NewDesc("bigcalc_heap_alloc_bytes",
			"Bytes of allocated heap objects.", nil, nil),
		heapObjects: prometheus.NewDesc("bigcalc_heap_objects",
			"Number of allocated heap objects.", nil, nil),
		totalAlloc: prometheus.NewDesc("bigcalc_alloc_bytes_total",
			"Cumulative bytes allocated for heap objects.", nil, nil),
		gcCycles: prometheus.NewDesc("bigcalc_gc_cycles_total",
			"Number of completed GC cycles.", nil, nil),
	}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Describe implements prometheus.Collector.
func (mc *MemoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- mc.heapAlloc
	ch <- mc.heapObjects
	ch <- mc.totalAlloc
	ch <- mc.gcCycles
}

// Collect implements prometheus.Collector.
func (mc *MemoryCollector) Collect(ch chan<- prometheus.Metric) {
	snap := mc.Snapshot()
	ch <- prometheus.MustNewConstMetric(mc.heapAlloc, prometheus.GaugeValue, float64(snap.HeapAlloc))
	ch <- prometheus.MustNewConstMetric(mc.heapObjects, prometheus.GaugeValue, float64(snap.HeapObjects))
	ch <- prometheus.MustNewConstMetric(mc.totalAlloc, prometheus.CounterValue, float64(snap.TotalAlloc))
	ch <- prometheus.MustNewConstMetric(mc.gcCycles, prometheus.CounterValue, float64(snap.NumGC))
}
