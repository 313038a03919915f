package store

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// --------------------- Data Types ---------------------

// Report is produced once per reset interval.
type Report struct {
	At         time.Time
	Throughput int64
}

// ReportFunc receives every Report produced by the reset loop.
type ReportFunc func(r Report)

// --------------------- The Store Component ---------------------

// Store holds the shared throughput counter. A single Store is created at
// startup and handed to every handler and to the reset loop.
type Store struct {
	// throughput is the hit count for the current interval.
	// Only touched through sync/atomic.
	throughput int64

	// ReportCallback is invoked with the drained value on every reset.
	ReportCallback ReportFunc
}

// NewStore constructs a Store with a zero counter. cb may be nil, in which
// case reports are written with LogReport.
func NewStore(cb ReportFunc) *Store {
	if cb == nil {
		cb = LogReport
	}
	return &Store{
		ReportCallback: cb,
	}
}

// --------------------- Counter ---------------------

// Increment adds one hit to the current interval.
func (s *Store) Increment() {
	atomic.AddInt64(&s.throughput, 1)
}

// Read returns the current interval's count without modifying it.
func (s *Store) Read() int64 {
	return atomic.LoadInt64(&s.throughput)
}

// ResetAndTake zeroes the counter and returns the value it held immediately
// before. The swap is a single atomic step, so a concurrent Increment lands
// either in the returned value or in the next interval, never both.
func (s *Store) ResetAndTake() int64 {
	return atomic.SwapInt64(&s.throughput, 0)
}

// --------------------- Reset Loop ---------------------

// resetOnce drains the counter and hands the result to the report callback.
func (s *Store) resetOnce(now time.Time) Report {
	r := Report{
		At:         now,
		Throughput: s.ResetAndTake(),
	}
	if s.ReportCallback != nil {
		s.ReportCallback(r)
	}
	return r
}

// RunResetLoop drains the counter every interval until ctx is cancelled.
// A non-positive interval returns immediately.
func (s *Store) RunResetLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.resetOnce(now)
		case <-ctx.Done():
			return
		}
	}
}

// --------------------- Helpers ---------------------

// LogReport writes a report as "<unix-timestamp>: <throughput>".
func LogReport(r Report) {
	log.Printf("%d: %d", r.At.Unix(), r.Throughput)
}
