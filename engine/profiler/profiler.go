package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("oxy.engine")
}

// Stats is one profiling report.
type Stats struct {
	// FPS is the tick rate over the last interval.
	FPS float64
	// Errors is the number of failed ticks over the last interval.
	Errors int
	// HeapMB is the live heap in MiB.
	HeapMB float64
	// AllocRateMB is the allocation churn in MiB per second.
	AllocRateMB float64
	// GC is the total number of garbage collections.
	GC uint32
	// LastPauseUs and MaxPauseUs describe the GC pauses since the previous report.
	LastPauseUs, MaxPauseUs uint64
	// SysMB is the memory obtained from the OS in MiB.
	SysMB float64
}

// Profiler tracks tick rate and memory statistics for performance monitoring.
// Reports are traced at info level every interval.
type Profiler struct {
	clock          common.Clock
	frameCount     int
	errorCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler. The interval defaults to 1 second when not positive.
//
// Parameters:
//   - clock: the time source, nil means common.SystemClock
//   - interval: the time between two reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(clock common.Clock, interval time.Duration) *Profiler {
	if clock == nil {
		clock = common.SystemClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		clock:          clock,
		lastTime:       clock.Now(),
		updateInterval: interval,
	}
}

// Tick records one engine tick and reports when the interval has elapsed.
//
// Parameters:
//   - failed: whether the tick ended with an error
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick(failed bool) bool {
	p.frameCount++
	if failed {
		p.errorCount++
	}
	currentTime := p.clock.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:    float64(p.frameCount) / elapsed.Seconds(),
		Errors: p.errorCount,
		HeapMB: float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:  float64(p.memStats.Sys) / 1024 / 1024,
		GC:     p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	tracer().Infof("[Profiler] FPS: %.2f | Errors: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.Errors, s.HeapMB, s.AllocRateMB, s.GC, s.LastPauseUs, s.MaxPauseUs, s.SysMB)

	p.last = s
	p.frameCount = 0
	p.errorCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, the zero value before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}
