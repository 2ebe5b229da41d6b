package perf

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Timer measures a single operation and logs it when stopped.
type Timer struct {
	name      string
	logger    *slog.Logger
	start     time.Time
	threshold time.Duration
	recorder  *Recorder
}

type Stats struct {
	Name          string
	Count         int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	SlowOps       int64
}

// Recorder aggregates durations of a repeated operation (e.g. every
// persistence write of the task store).
type Recorder struct {
	name      string
	logger    *slog.Logger
	count     int64
	totalDur  int64
	minDur    int64
	maxDur    int64
	slowOps   int64
	threshold time.Duration
}

func NewTimer(name string, logger *slog.Logger, threshold time.Duration) *Timer {
	return &Timer{
		name:      name,
		logger:    logger,
		start:     time.Now(),
		threshold: threshold,
	}
}

// Start begins a timer whose result is also folded into r.
func (r *Recorder) Start() *Timer {
	t := NewTimer(r.name, r.logger, r.threshold)
	t.recorder = r
	return t
}

// Stop logs the elapsed time (DEBUG, or WARN past the threshold) and
// returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.recorder != nil {
		t.recorder.Record(elapsed)
	}
	if t.logger != nil {
		t.logger.Debug(t.name, "duration_ms", elapsed.Milliseconds())
		if elapsed > t.threshold {
			t.logger.Warn(t.name+"_slow", "duration_ms", elapsed.Milliseconds(), "threshold_ms", t.threshold.Milliseconds())
		}
	}
	return elapsed
}

func NewRecorder(name string, logger *slog.Logger, threshold time.Duration) *Recorder {
	return &Recorder{
		name:      name,
		logger:    logger,
		threshold: threshold,
		minDur:    1<<63 - 1,
	}
}

func (r *Recorder) Record(elapsed time.Duration) {
	elapsedNs := elapsed.Nanoseconds()
	atomic.AddInt64(&r.count, 1)
	atomic.AddInt64(&r.totalDur, elapsedNs)

	for {
		minDur := atomic.LoadInt64(&r.minDur)
		if elapsedNs >= minDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.minDur, minDur, elapsedNs) {
			break
		}
	}

	for {
		maxDur := atomic.LoadInt64(&r.maxDur)
		if elapsedNs <= maxDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.maxDur, maxDur, elapsedNs) {
			break
		}
	}

	if elapsed >= r.threshold {
		atomic.AddInt64(&r.slowOps, 1)
	}
}

func (r *Recorder) Stats() Stats {
	totalDur := atomic.LoadInt64(&r.totalDur)
	minDur := atomic.LoadInt64(&r.minDur)
	maxDur := atomic.LoadInt64(&r.maxDur)

	if minDur == 1<<63-1 {
		minDur = 0
	}

	return Stats{
		Name:          r.name,
		Count:         atomic.LoadInt64(&r.count),
		TotalDuration: time.Duration(totalDur),
		MinDuration:   time.Duration(minDur),
		MaxDuration:   time.Duration(maxDur),
		SlowOps:       atomic.LoadInt64(&r.slowOps),
	}
}

func (s *Stats) AvgDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// LogStats writes the aggregate at DEBUG; nothing is logged before the
// first recorded operation.
func (r *Recorder) LogStats() {
	stats := r.Stats()
	if stats.Count == 0 || r.logger == nil {
		return
	}
	r.logger.Debug(r.name+"_stats",
		"count", stats.Count,
		"total_ms", stats.TotalDuration.Milliseconds(),
		"avg_ms", stats.AvgDuration().Milliseconds(),
		"min_ms", stats.MinDuration.Milliseconds(),
		"max_ms", stats.MaxDuration.Milliseconds(),
		"slow_ops", stats.SlowOps,
	)
}
