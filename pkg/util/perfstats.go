package util

import (
	"fmt"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records time and memory allocation from a given starting point.
type PerfStats struct {
	startTime time.Time
	startMem  uint64
	startGc   uint32
}

// PerfReport summarises what happened since a PerfStats was created.
type PerfReport struct {
	// Elapsed wall-clock time
	Elapsed time.Duration
	// Bytes allocated (in total) since the start
	Allocated uint64
	// Number of garbage collections since the start
	Collections uint32
	// Bytes currently live on the heap
	Live uint64
}

// NewPerfStats takes a snapshot of the current time and memory allocation.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Report the difference between now and the starting point.
func (p *PerfStats) Report() PerfReport {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return PerfReport{time.Since(p.startTime), m.TotalAlloc - p.startMem, m.NumGC - p.startGc, m.Alloc}
}

// Log the difference between now and the starting point at info level.
// Allocation is reported in Kb since a single scenario allocates little.
func (p *PerfStats) Log(prefix string) {
	log.Infof("%s %s", prefix, p.Report().String())
}

func (p PerfReport) String() string {
	return fmt.Sprintf("took %0.4fs using %v Kb (%v GC events) [%v Kb]",
		p.Elapsed.Seconds(), p.Allocated/1024, p.Collections, p.Live/1024)
}
