package enrich

import (
	"sync/atomic"
	"time"
)

// Stats tracks worker loop counters. Safe for concurrent use.
type Stats struct {
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	noData    atomic.Int64
	started   time.Time
}

// NewStats creates a Stats anchored at now.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

// Record counts one processed item.
func (s *Stats) Record(status string, err error) {
	s.processed.Add(1)
	switch {
	case err != nil:
		s.failed.Add(1)
	case status == StatusNoData:
		s.noData.Add(1)
	default:
		s.succeeded.Add(1)
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Processed  int64         `json:"processed"`
	Succeeded  int64         `json:"succeeded"`
	Failed     int64         `json:"failed"`
	NoData     int64         `json:"no_data"`
	Uptime     time.Duration `json:"-"`
	UptimeSecs float64       `json:"uptime_secs"`
	PerMinute  float64       `json:"per_minute"`
}

// Snapshot returns the current counters plus a processing rate.
func (s *Stats) Snapshot() Snapshot {
	uptime := time.Since(s.started)
	processed := s.processed.Load()
	perMin := 0.0
	if uptime > 0 {
		perMin = float64(processed) / uptime.Minutes()
	}
	return Snapshot{
		Processed:  processed,
		Succeeded:  s.succeeded.Load(),
		Failed:     s.failed.Load(),
		NoData:     s.noData.Load(),
		Uptime:     uptime,
		UptimeSecs: uptime.Seconds(),
		PerMinute:  perMin,
	}
}
